package uow

import (
	"context"

	"bms-loan-engine/internal/domain/installment"
	"bms-loan-engine/internal/domain/loan"
)

type Repos struct {
	Loans        loan.Repository
	Installments installment.Repository
}

// UnitOfWork serializes mutating work per loan. Every read-modify-write on
// a loan and its schedule (disburse, pay, overdue sweep) runs inside
// WithinLoanTx, which locks the loan row first.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
