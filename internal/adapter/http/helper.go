package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bms-loan-engine/internal/domain/installment"
	"bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/internal/domain/rate"
)

// writeDomainError maps domain error kinds to HTTP codes so the caller can
// render an actionable message instead of a generic failure.
func writeDomainError(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, installment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrAlreadyDisbursed),
		errors.Is(err, loan.ErrLoanNotActive),
		errors.Is(err, installment.ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, loan.ErrInvalidLoanTerms),
		errors.Is(err, loan.ErrMissingReason),
		errors.Is(err, rate.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
