package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "bms-loan-engine/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

// GetByLoanIDForUpdate locks the loan row for the duration of the
// surrounding transaction.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

// GetOpenLoanByBorrowerID finds the borrower's live loan, if any. Rejected
// and settled loans don't count.
func (r *LoanRepository) GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND state IN ?", borrowerID, []loanDomain.State{
			loanDomain.StatePending, loanDomain.StateApproved, loanDomain.StateDisbursed,
		}).
		Order("state_updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByState(ctx context.Context, state loanDomain.State) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) CountByState(ctx context.Context) (map[loanDomain.State]int64, error) {
	type row struct {
		State loanDomain.State
		N     int64
	}
	var rows []row
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select("state, count(*) as n").
		Group("state").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	out := make(map[loanDomain.State]int64, len(rows))
	for _, rw := range rows {
		out[rw.State] = rw.N
	}
	return out, nil
}

func (r *LoanRepository) SumPrincipalByStates(ctx context.Context, states ...loanDomain.State) (decimal.Decimal, error) {
	var total decimal.Decimal
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("state IN ?", states).
		Select("COALESCE(SUM(principal), 0)").
		Scan(&total)
	return total, res.Error
}
