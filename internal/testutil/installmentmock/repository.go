package installmentmock

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "bms-loan-engine/internal/domain/installment"
)

var errUnimplemented = errors.New("installmentmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBatchFn          func(ctx context.Context, list []domain.Installment) error
	ListByLoanIDFn         func(ctx context.Context, loanNumericID uint64) ([]domain.Installment, error)
	GetByLoanAndNumberFn   func(ctx context.Context, loanNumericID uint64, number int) (*domain.Installment, error)
	CountByLoanAndStatusFn func(ctx context.Context, loanNumericID uint64, status domain.Status) (int64, error)
	SumPaidAmountFn        func(ctx context.Context) (decimal.Decimal, error)
	SaveFn                 func(ctx context.Context, i *domain.Installment) error
}

func (m *Repo) CreateBatch(ctx context.Context, list []domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, list)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]domain.Installment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanNumericID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByLoanAndNumber(ctx context.Context, loanNumericID uint64, number int) (*domain.Installment, error) {
	if m.GetByLoanAndNumberFn != nil {
		return m.GetByLoanAndNumberFn(ctx, loanNumericID, number)
	}
	return nil, errUnimplemented
}

func (m *Repo) CountByLoanAndStatus(ctx context.Context, loanNumericID uint64, status domain.Status) (int64, error) {
	if m.CountByLoanAndStatusFn != nil {
		return m.CountByLoanAndStatusFn(ctx, loanNumericID, status)
	}
	return 0, errUnimplemented
}

func (m *Repo) SumPaidAmount(ctx context.Context) (decimal.Decimal, error) {
	if m.SumPaidAmountFn != nil {
		return m.SumPaidAmountFn(ctx)
	}
	return decimal.Zero, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, i *domain.Installment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, i)
	}
	return nil
}
