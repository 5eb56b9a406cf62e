package workflow

import (
	"time"

	"bms-loan-engine/internal/domain/installment"
	"bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/pkg/amortization"
)

// buildSchedule turns the loan's frozen terms into dated installment rows.
// Due dates use calendar-month addition with end-of-month clamping: a loan
// disbursed Jan 31 falls due Feb 28 (or 29), not Mar 2.
func buildSchedule(l *loan.Loan, disbursementDate time.Time) ([]installment.Installment, error) {
	calc, err := amortization.Compute(l.Principal, l.AnnualRatePercent, l.TermMonths)
	if err != nil {
		return nil, err
	}

	rows := make([]installment.Installment, 0, len(calc.Periods))
	for _, p := range calc.Periods {
		rows = append(rows, installment.Installment{
			LoanID:                  l.ID,
			Number:                  p.Number,
			DueDate:                 addMonthsClamped(disbursementDate, p.Number),
			PrincipalPortion:        p.PrincipalPortion,
			InterestPortion:         p.InterestPortion,
			TotalAmount:             p.TotalAmount,
			RemainingPrincipalAfter: p.RemainingAfter,
			Status:                  installment.StatusPending,
		})
	}
	return rows, nil
}

// addMonthsClamped adds months to t, clamping the day to the target
// month's length. time.AddDate would normalize Jan 31 + 1 month to Mar 3.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}
