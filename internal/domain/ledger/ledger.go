// Package ledger is the port to the external account ledger. The engine
// never moves money itself: it requests a credit on disbursement and a
// debit on installment payment, and aborts the surrounding transaction if
// the ledger refuses.
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditRequest asks the ledger to credit the borrower's linked account
// with the loan principal on disbursement.
type CreditRequest struct {
	EventID   uuid.UUID       `json:"event_id"`
	LoanID    string          `json:"loan_id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// DebitRequest asks the ledger to debit an installment amount from the
// borrower's linked account.
type DebitRequest struct {
	EventID           uuid.UUID       `json:"event_id"`
	LoanID            string          `json:"loan_id"`
	AccountID         string          `json:"account_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
}

// AccountLedger is implemented by the account service adapter. Both calls
// are synchronous acknowledgments: a non-nil error means the transfer did
// not happen and the caller must roll back.
type AccountLedger interface {
	Credit(ctx context.Context, req CreditRequest) error
	Debit(ctx context.Context, req DebitRequest) error
}
