// Package amortization computes reducing-balance, fixed-installment
// repayment schedules. It is the single authority for EMI math: the
// unsaved-terms preview and the persisted schedule both call Compute, so
// the two can never disagree on rounding.
package amortization

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidTerms = errors.New("invalid amortization terms")

var (
	one         = decimal.NewFromInt(1)
	twelveHundo = decimal.NewFromInt(1200)
)

// Period is one month of the schedule. All amounts carry two decimal
// places, rounded half-even.
type Period struct {
	Number           int
	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
	TotalAmount      decimal.Decimal
	RemainingAfter   decimal.Decimal
}

type Result struct {
	InstallmentAmount decimal.Decimal
	// TotalPayable is the sum of the period totals, never the
	// installment re-multiplied, so it agrees with the schedule.
	TotalPayable decimal.Decimal
	Periods      []Period
}

// Compute builds the full schedule for principal at annualRatePercent over
// termMonths. Rounding drift accumulates into the final period's principal
// portion so the balance lands on exactly 0.00; the final total may differ
// from the others by a rounding unit.
func Compute(principal, annualRatePercent decimal.Decimal, termMonths int) (*Result, error) {
	if principal.LessThanOrEqual(decimal.Zero) || termMonths < 1 || annualRatePercent.IsNegative() {
		return nil, ErrInvalidTerms
	}

	monthlyRate := annualRatePercent.Div(twelveHundo)

	var emi decimal.Decimal
	if monthlyRate.IsZero() {
		emi = principal.Div(decimal.NewFromInt(int64(termMonths))).RoundBank(2)
	} else {
		factor := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(termMonths)))
		emi = principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one)).RoundBank(2)
	}

	periods := make([]Period, 0, termMonths)
	remaining := principal
	totalPayable := decimal.Zero

	for i := 1; i <= termMonths; i++ {
		interest := remaining.Mul(monthlyRate).RoundBank(2)

		var principalPart, total decimal.Decimal
		if i == termMonths {
			// Final period absorbs the accumulated rounding residual.
			principalPart = remaining
			total = principalPart.Add(interest)
			remaining = decimal.Zero
		} else {
			principalPart = emi.Sub(interest)
			total = emi
			remaining = remaining.Sub(principalPart)
		}

		totalPayable = totalPayable.Add(total)
		periods = append(periods, Period{
			Number:           i,
			PrincipalPortion: principalPart,
			InterestPortion:  interest,
			TotalAmount:      total,
			RemainingAfter:   remaining,
		})
	}

	return &Result{
		InstallmentAmount: emi,
		TotalPayable:      totalPayable,
		Periods:           periods,
	}, nil
}
