package loan

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidLoanTerms  = errors.New("invalid loan terms")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrMissingReason     = errors.New("rejection reason is required")
	ErrAlreadyDisbursed  = errors.New("loan schedule already generated")
	ErrLoanNotActive     = errors.New("loan is not in disbursed state")
)

type State string

const (
	StatePending   State = "pending"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
	StateDisbursed State = "disbursed"
	StateClosed    State = "closed"
	StateDefaulted State = "defaulted"
)

// Terminal reports whether no further transition may leave s.
func (s State) Terminal() bool {
	return s == StateRejected || s == StateClosed || s == StateDefaulted
}

type Category string

const (
	CategoryPersonal  Category = "PERSONAL"
	CategoryHome      Category = "HOME"
	CategoryCar       Category = "CAR"
	CategoryEducation Category = "EDUCATION"
	CategoryBusiness  Category = "BUSINESS"
)

type Loan struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID            string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID        string          `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`
	LinkedAccountID   string          `gorm:"size:32;column:linked_account_id" json:"linked_account_id"`
	Category          Category        `gorm:"size:16" json:"category"`
	Principal         decimal.Decimal `gorm:"type:decimal(19,2)" json:"principal"`
	AnnualRatePercent decimal.Decimal `gorm:"type:decimal(5,2);column:annual_rate_percent" json:"annual_rate_percent"`
	TermMonths        int             `gorm:"column:term_months" json:"term_months"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(19,2)" json:"installment_amount"`
	TotalPayable      decimal.Decimal `gorm:"type:decimal(19,2)" json:"total_payable"`
	State             State           `gorm:"type:enum('pending','approved','rejected','disbursed','closed','defaulted');default:'pending'" json:"state"`
	RejectionReason   string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	StartDate         *time.Time      `gorm:"type:date" json:"start_date,omitempty"`
	StateUpdatedAt    time.Time       `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) transition(next State, now time.Time) {
	l.State = next
	l.StateUpdatedAt = now.UTC()
}

// Approve moves pending → approved.
func (l *Loan) Approve(now time.Time) error {
	if l.State != StatePending {
		return ErrInvalidTransition
	}
	l.transition(StateApproved, now)
	return nil
}

// Reject moves pending → rejected and records the mandatory reason.
func (l *Loan) Reject(reason string, now time.Time) error {
	if l.State != StatePending {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	l.RejectionReason = reason
	l.transition(StateRejected, now)
	return nil
}

// Disburse moves approved → disbursed and fixes the start date.
// Schedule generation is the caller's job; the two happen in one tx.
func (l *Loan) Disburse(startDate, now time.Time) error {
	if l.State != StateApproved {
		return ErrInvalidTransition
	}
	d := startDate.UTC()
	l.StartDate = &d
	l.transition(StateDisbursed, now)
	return nil
}

// Close moves disbursed → closed.
func (l *Loan) Close(now time.Time) error {
	if l.State != StateDisbursed {
		return ErrInvalidTransition
	}
	l.transition(StateClosed, now)
	return nil
}

// MarkDefaulted moves disbursed → defaulted.
func (l *Loan) MarkDefaulted(now time.Time) error {
	if l.State != StateDisbursed {
		return ErrInvalidTransition
	}
	l.transition(StateDefaulted, now)
	return nil
}
