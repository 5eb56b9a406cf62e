package installment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// CreateBatch inserts a freshly generated schedule in one shot.
	CreateBatch(ctx context.Context, list []Installment) error

	// ListByLoanID returns the full schedule ordered by installment number.
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Installment, error)

	// GetByLoanAndNumber fetches a single installment of a loan.
	GetByLoanAndNumber(ctx context.Context, loanNumericID uint64, number int) (*Installment, error)

	// CountByLoanAndStatus counts a loan's installments in the given status.
	CountByLoanAndStatus(ctx context.Context, loanNumericID uint64, status Status) (int64, error)

	// SumPaidAmount totals the amount collected across all paid
	// installments of all loans.
	SumPaidAmount(ctx context.Context) (decimal.Decimal, error)

	Save(ctx context.Context, i *Installment) error
}
