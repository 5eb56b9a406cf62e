package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	workflowUC "bms-loan-engine/internal/usecase/workflow"
	"bms-loan-engine/pkg/clock"
)

type WorkflowHandler struct {
	uc  *workflowUC.Usecase
	clk clock.Clock
}

func NewWorkflowHandler(uc *workflowUC.Usecase, clk clock.Clock) *WorkflowHandler {
	return &WorkflowHandler{uc: uc, clk: clk}
}

func (h *WorkflowHandler) ApproveLoan(c echo.Context) error {
	if err := h.uc.Approve(c.Request().Context(), c.Param("loan_id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"state": "approved"})
}

type rejectLoanReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *WorkflowHandler) RejectLoan(c echo.Context) error {
	var req rejectLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	// Blank-but-present reasons reach the usecase, which rejects them
	// with the specific error kind.
	if err := h.uc.Reject(c.Request().Context(), c.Param("loan_id"), req.Reason); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"state": "rejected"})
}

type disburseLoanReq struct {
	// Canonical date `YYYY-MM-DD`; defaults to today when omitted.
	DisbursementDate string `json:"disbursement_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *WorkflowHandler) DisburseLoan(c echo.Context) error {
	var req disburseLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	date := h.clk.Now()
	if req.DisbursementDate != "" {
		d, err := time.Parse("2006-01-02", req.DisbursementDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid disbursement_date"})
		}
		date = d
	}
	if err := h.uc.Disburse(c.Request().Context(), c.Param("loan_id"), date); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"state": "disbursed"})
}

func (h *WorkflowHandler) CloseLoan(c echo.Context) error {
	if err := h.uc.Close(c.Request().Context(), c.Param("loan_id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"state": "closed"})
}

func (h *WorkflowHandler) MarkDefaulted(c echo.Context) error {
	if err := h.uc.MarkDefaulted(c.Request().Context(), c.Param("loan_id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"state": "defaulted"})
}
