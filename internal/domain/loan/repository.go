package loan

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	ListByState(ctx context.Context, state State) ([]Loan, error)
	CountByState(ctx context.Context) (map[State]int64, error)

	// SumPrincipalByStates totals the principal of loans in any of the
	// given states.
	SumPrincipalByStates(ctx context.Context, states ...State) (decimal.Decimal, error)

	Save(ctx context.Context, l *Loan) error
}
