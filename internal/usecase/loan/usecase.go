package loan

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bms-loan-engine/internal/domain/installment"
	"bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/internal/domain/rate"
	"bms-loan-engine/pkg/amortization"
	"bms-loan-engine/pkg/clock"
	"bms-loan-engine/pkg/id"
)

type Usecase struct {
	repo  loan.Repository
	insts installment.Repository
	rates rate.Table
	clk   clock.Clock
}

func NewUsecase(r loan.Repository, insts installment.Repository, rates rate.Table, clk clock.Clock) *Usecase {
	return &Usecase{repo: r, insts: insts, rates: rates, clk: clk}
}

// Apply submits a new loan application. The category rate is resolved and
// frozen here; the installment amount and total payable are precomputed
// with the same code path that later generates the schedule.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if in.BorrowerID == "" || len(in.BorrowerID) != 32 {
		return nil, fmt.Errorf("%w: borrower id must be 32-char hex", loan.ErrInvalidLoanTerms)
	}
	if in.LinkedAccountID == "" {
		return nil, fmt.Errorf("%w: linked account id is required", loan.ErrInvalidLoanTerms)
	}
	if in.Principal.LessThanOrEqual(decimal.Zero) || in.TermMonths < 1 {
		return nil, fmt.Errorf("%w: principal must be positive and term at least 1 month", loan.ErrInvalidLoanTerms)
	}

	// Block if the borrower already has an open loan (pending, approved
	// or disbursed).
	open, err := u.repo.GetOpenLoanByBorrowerID(ctx, in.BorrowerID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("borrower %s already has an open loan: %s", in.BorrowerID, open.LoanID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	annualRate, err := u.rates.For(loan.Category(in.Category))
	if err != nil {
		return nil, err
	}

	calc, err := amortization.Compute(in.Principal, annualRate, in.TermMonths)
	if err != nil {
		if errors.Is(err, amortization.ErrInvalidTerms) {
			return nil, loan.ErrInvalidLoanTerms
		}
		return nil, err
	}

	l := &loan.Loan{
		LoanID:            id.NewID32(),
		BorrowerID:        in.BorrowerID,
		LinkedAccountID:   in.LinkedAccountID,
		Category:          loan.Category(in.Category),
		Principal:         in.Principal,
		AnnualRatePercent: annualRate,
		TermMonths:        in.TermMonths,
		InstallmentAmount: calc.InstallmentAmount,
		TotalPayable:      calc.TotalPayable,
		State:             loan.StatePending,
		StateUpdatedAt:    u.clk.Now(),
	}

	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	list, err := u.repo.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

// Pending lists applications awaiting an admin decision.
func (u *Usecase) Pending(ctx context.Context) ([]LoanDTO, error) {
	list, err := u.repo.ListByState(ctx, loan.StatePending)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

func (u *Usecase) ListByState(ctx context.Context, state string) ([]LoanDTO, error) {
	list, err := u.repo.ListByState(ctx, loan.State(state))
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

// Preview computes the EMI for unsaved terms. Pure calculation, nothing is
// persisted; same rounding as the authoritative schedule.
func (u *Usecase) Preview(_ context.Context, in PreviewInput) (*PreviewDTO, error) {
	annualRate, err := u.rates.For(loan.Category(in.Category))
	if err != nil {
		return nil, err
	}
	calc, err := amortization.Compute(in.Principal, annualRate, in.TermMonths)
	if err != nil {
		if errors.Is(err, amortization.ErrInvalidTerms) {
			return nil, loan.ErrInvalidLoanTerms
		}
		return nil, err
	}
	return &PreviewDTO{
		AnnualRatePercent: annualRate,
		InstallmentAmount: calc.InstallmentAmount,
		TotalPayable:      calc.TotalPayable,
	}, nil
}

// Statistics reports per-state counts plus the principal ever paid out
// and the amount recovered through settled installments.
func (u *Usecase) Statistics(ctx context.Context) (*StatisticsDTO, error) {
	counts, err := u.repo.CountByState(ctx)
	if err != nil {
		return nil, err
	}
	disbursed, err := u.repo.SumPrincipalByStates(ctx,
		loan.StateDisbursed, loan.StateClosed, loan.StateDefaulted)
	if err != nil {
		return nil, err
	}
	recovered, err := u.insts.SumPaidAmount(ctx)
	if err != nil {
		return nil, err
	}
	return &StatisticsDTO{
		Pending:        counts[loan.StatePending],
		Approved:       counts[loan.StateApproved],
		Rejected:       counts[loan.StateRejected],
		Disbursed:      counts[loan.StateDisbursed],
		Closed:         counts[loan.StateClosed],
		Defaulted:      counts[loan.StateDefaulted],
		TotalDisbursed: disbursed,
		TotalRecovered: recovered,
	}, nil
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		BorrowerID:        l.BorrowerID,
		LinkedAccountID:   l.LinkedAccountID,
		Category:          string(l.Category),
		Principal:         l.Principal,
		AnnualRatePercent: l.AnnualRatePercent,
		TermMonths:        l.TermMonths,
		InstallmentAmount: l.InstallmentAmount,
		TotalPayable:      l.TotalPayable,
		State:             string(l.State),
		RejectionReason:   l.RejectionReason,
		StartDate:         l.StartDate,
		CreatedAt:         l.CreatedAt,
	}
}

func toDTOs(list []loan.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out
}
