package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"bms-loan-engine/internal/domain/installment"
)

type InstallmentDTO struct {
	Number                  int             `json:"installment_number"`
	DueDate                 time.Time       `json:"due_date"`
	PrincipalPortion        decimal.Decimal `json:"principal_portion"`
	InterestPortion         decimal.Decimal `json:"interest_portion"`
	TotalAmount             decimal.Decimal `json:"total_amount"`
	RemainingPrincipalAfter decimal.Decimal `json:"remaining_principal_after"`
	Status                  string          `json:"status"`
	PaidOnDate              *time.Time      `json:"paid_on_date,omitempty"`
}

func toDTO(i *installment.Installment) InstallmentDTO {
	return InstallmentDTO{
		Number:                  i.Number,
		DueDate:                 i.DueDate,
		PrincipalPortion:        i.PrincipalPortion,
		InterestPortion:         i.InterestPortion,
		TotalAmount:             i.TotalAmount,
		RemainingPrincipalAfter: i.RemainingPrincipalAfter,
		Status:                  string(i.Status),
		PaidOnDate:              i.PaidOnDate,
	}
}
