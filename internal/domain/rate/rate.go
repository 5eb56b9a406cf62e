// Package rate maps loan categories to nominal annual interest rates.
// Rates are resolved once at application time and frozen on the loan, so
// later table changes never rewrite an existing schedule.
package rate

import (
	"errors"

	"github.com/shopspring/decimal"

	"bms-loan-engine/internal/domain/loan"
)

var ErrUnknownCategory = errors.New("unknown loan category")

var table = map[loan.Category]decimal.Decimal{
	loan.CategoryPersonal:  decimal.NewFromFloat(12.0),
	loan.CategoryHome:      decimal.NewFromFloat(8.5),
	loan.CategoryCar:       decimal.NewFromFloat(9.5),
	loan.CategoryEducation: decimal.NewFromFloat(7.5),
	loan.CategoryBusiness:  decimal.NewFromFloat(11.0),
}

var fallback = decimal.NewFromFloat(10.0)

// Table resolves annual rates per category. The zero value is the lenient
// table: unknown categories get the fallback rate. Strict makes unknown
// categories an error instead.
type Table struct {
	Strict bool
}

// For returns the annual rate percent for category.
func (t Table) For(category loan.Category) (decimal.Decimal, error) {
	if r, ok := table[category]; ok {
		return r, nil
	}
	if t.Strict {
		return decimal.Zero, ErrUnknownCategory
	}
	return fallback, nil
}
