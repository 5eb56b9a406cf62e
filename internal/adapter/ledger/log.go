// Package ledger adapts the account-ledger port. The real account service
// lives outside this engine; LogLedger stands in for its adapter, logging
// and acknowledging every transfer request. Swap it for the account
// service client at deployment.
package ledger

import (
	"context"
	"log"

	domain "bms-loan-engine/internal/domain/ledger"
)

type LogLedger struct{}

func NewLogLedger() *LogLedger { return &LogLedger{} }

func (LogLedger) Credit(_ context.Context, req domain.CreditRequest) error {
	log.Printf("ledger: credit %s to account %s (loan %s, event %s)",
		req.Amount.StringFixed(2), req.AccountID, req.LoanID, req.EventID)
	return nil
}

func (LogLedger) Debit(_ context.Context, req domain.DebitRequest) error {
	log.Printf("ledger: debit %s from account %s (loan %s #%d, event %s)",
		req.Amount.StringFixed(2), req.AccountID, req.LoanID, req.InstallmentNumber, req.EventID)
	return nil
}
