package ledgermock

import (
	"context"

	domain "bms-loan-engine/internal/domain/ledger"
)

// Ensure compile-time compliance
var _ domain.AccountLedger = (*Ledger)(nil)

// Ledger is a function-backed mock that satisfies ledger.AccountLedger.
// It records every request it acknowledges so tests can assert on the
// emitted events.
type Ledger struct {
	CreditFn func(ctx context.Context, req domain.CreditRequest) error
	DebitFn  func(ctx context.Context, req domain.DebitRequest) error

	Credits []domain.CreditRequest
	Debits  []domain.DebitRequest
}

func (m *Ledger) Credit(ctx context.Context, req domain.CreditRequest) error {
	if m.CreditFn != nil {
		if err := m.CreditFn(ctx, req); err != nil {
			return err
		}
	}
	m.Credits = append(m.Credits, req)
	return nil
}

func (m *Ledger) Debit(ctx context.Context, req domain.DebitRequest) error {
	if m.DebitFn != nil {
		if err := m.DebitFn(ctx, req); err != nil {
			return err
		}
	}
	m.Debits = append(m.Debits, req)
	return nil
}
