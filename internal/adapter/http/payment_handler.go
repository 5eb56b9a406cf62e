package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	paymentUC "bms-loan-engine/internal/usecase/payment"
	"bms-loan-engine/pkg/clock"
)

type PaymentHandler struct {
	uc  *paymentUC.Usecase
	clk clock.Clock
}

func NewPaymentHandler(uc *paymentUC.Usecase, clk clock.Clock) *PaymentHandler {
	return &PaymentHandler{uc: uc, clk: clk}
}

type payEMIReq struct {
	InstallmentNumber int `json:"installment_number" validate:"required,gte=1"`
}

func (h *PaymentHandler) PayEMI(c echo.Context) error {
	var req payEMIReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Pay(c.Request().Context(), c.Param("loan_id"), req.InstallmentNumber, h.clk.Now())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) Schedule(c echo.Context) error {
	list, err := h.uc.Schedule(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) PendingInstallments(c echo.Context) error {
	list, err := h.uc.Pending(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type sweepReq struct {
	// Canonical date `YYYY-MM-DD`; defaults to today when omitted.
	AsOf string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

// SweepOverdue walks every disbursed loan and flags past-due pending
// installments as late. Admin endpoint, safe to re-run.
func (h *PaymentHandler) SweepOverdue(c echo.Context) error {
	var req sweepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	asOf := h.clk.Now()
	if req.AsOf != "" {
		d, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid as_of"})
		}
		asOf = d
	}
	n, err := h.uc.SweepOverdue(c.Request().Context(), asOf)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"marked_late": n})
}
