package installment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("installment not found")
	ErrAlreadyPaid = errors.New("installment already paid")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusLate    Status = "late"
)

// Installment is one period of a disbursed loan's repayment schedule.
// Everything except Status and PaidOnDate is immutable once generated.
type Installment struct {
	ID                      uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID                  uint64          `gorm:"column:loan_id;not null;index;uniqueIndex:ux_installments_loan_number" json:"-"`
	Number                  int             `gorm:"column:number;not null;uniqueIndex:ux_installments_loan_number" json:"installment_number"`
	DueDate                 time.Time       `gorm:"type:date;not null" json:"due_date"`
	PrincipalPortion        decimal.Decimal `gorm:"type:decimal(19,2)" json:"principal_portion"`
	InterestPortion         decimal.Decimal `gorm:"type:decimal(19,2)" json:"interest_portion"`
	TotalAmount             decimal.Decimal `gorm:"type:decimal(19,2)" json:"total_amount"`
	RemainingPrincipalAfter decimal.Decimal `gorm:"type:decimal(19,2);column:remaining_principal_after" json:"remaining_principal_after"`
	Status                  Status          `gorm:"type:enum('pending','paid','late');default:'pending'" json:"status"`
	PaidOnDate              *time.Time      `gorm:"type:date" json:"paid_on_date,omitempty"`
	CreatedAt               time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt               time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Installment) TableName() string { return "installments" }

// Payable reports whether the installment can still be settled.
func (i *Installment) Payable() bool {
	return i.Status == StatusPending || i.Status == StatusLate
}

// MarkPaid settles the installment in full on date.
func (i *Installment) MarkPaid(date time.Time) error {
	if !i.Payable() {
		return ErrAlreadyPaid
	}
	d := date.UTC()
	i.Status = StatusPaid
	i.PaidOnDate = &d
	return nil
}

// MarkLate flags a pending installment whose due date has passed.
// Paid and already-late installments are left alone, which makes the
// overdue sweep idempotent.
func (i *Installment) MarkLate(asOf time.Time) bool {
	if i.Status != StatusPending {
		return false
	}
	if !i.DueDate.Before(asOf) {
		return false
	}
	i.Status = StatusLate
	return true
}
