package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApplyInput struct {
	BorrowerID      string          `json:"borrower_id"`
	LinkedAccountID string          `json:"linked_account_id"`
	Category        string          `json:"category"`
	Principal       decimal.Decimal `json:"principal"`
	TermMonths      int             `json:"term_months"`
}

type LoanDTO struct {
	LoanID            string          `json:"loan_id"`
	BorrowerID        string          `json:"borrower_id"`
	LinkedAccountID   string          `json:"linked_account_id"`
	Category          string          `json:"category"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TermMonths        int             `json:"term_months"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	State             string          `json:"state"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
	StartDate         *time.Time      `json:"start_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type PreviewInput struct {
	Category   string          `json:"category"`
	Principal  decimal.Decimal `json:"principal"`
	TermMonths int             `json:"term_months"`
}

type PreviewDTO struct {
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
}

type StatisticsDTO struct {
	Pending        int64           `json:"pending"`
	Approved       int64           `json:"approved"`
	Rejected       int64           `json:"rejected"`
	Disbursed      int64           `json:"disbursed"`
	Closed         int64           `json:"closed"`
	Defaulted      int64           `json:"defaulted"`
	TotalDisbursed decimal.Decimal `json:"total_disbursed"`
	TotalRecovered decimal.Decimal `json:"total_recovered"`
}
