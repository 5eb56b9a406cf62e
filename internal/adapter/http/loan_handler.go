package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	loanUC "bms-loan-engine/internal/usecase/loan"
)

type LoanHandler struct{ uc *loanUC.Usecase }

func NewLoanHandler(uc *loanUC.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	BorrowerID      string          `json:"borrower_id"        validate:"required,hex32"`
	LinkedAccountID string          `json:"linked_account_id"  validate:"required"`
	Category        string          `json:"category"           validate:"required"`
	Principal       decimal.Decimal `json:"principal"`
	TermMonths      int             `json:"term_months"        validate:"required,gte=1"`
}

func (h *LoanHandler) ApplyLoan(c echo.Context) error {
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Apply(c.Request().Context(), loanUC.ApplyInput{
		BorrowerID:      req.BorrowerID,
		LinkedAccountID: req.LinkedAccountID,
		Category:        req.Category,
		Principal:       req.Principal,
		TermMonths:      req.TermMonths,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	ctx := c.Request().Context()
	if borrower := c.QueryParam("borrower_id"); borrower != "" {
		list, err := h.uc.ListByBorrower(ctx, borrower)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
	if state := c.QueryParam("status"); state != "" {
		list, err := h.uc.ListByState(ctx, state)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "borrower_id or status query param required"})
}

func (h *LoanHandler) PendingLoans(c echo.Context) error {
	list, err := h.uc.Pending(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) Statistics(c echo.Context) error {
	dto, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type previewReq struct {
	Category   string          `json:"category"    validate:"required"`
	Principal  decimal.Decimal `json:"principal"`
	TermMonths int             `json:"term_months" validate:"required,gte=1"`
}

// PreviewEMI computes the installment for unsaved terms. Same code path
// as the authoritative schedule, nothing persisted.
func (h *LoanHandler) PreviewEMI(c echo.Context) error {
	var req previewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Preview(c.Request().Context(), loanUC.PreviewInput{
		Category:   req.Category,
		Principal:  req.Principal,
		TermMonths: req.TermMonths,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
