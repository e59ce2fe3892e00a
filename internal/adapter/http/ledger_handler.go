package http

import (
	"net/http"
	"strconv"

	domain "debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/usecase/ledger"
	"debtsify-backend/internal/usecase/report"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// LedgerHandler serves the cash book and the reports computed from it.
type LedgerHandler struct {
	book    *ledger.Usecase
	reports *report.Usecase
}

func NewLedgerHandler(book *ledger.Usecase, reports *report.Usecase) *LedgerHandler {
	return &LedgerHandler{book: book, reports: reports}
}

type recordTxReq struct {
	Date            string          `json:"date"              validate:"omitempty,datetime=2006-01-02"`
	Amount          decimal.Decimal `json:"amount"            validate:"dpos,dec2"`
	Type            string          `json:"type"              validate:"required,oneof=CREDIT DEBIT"`
	Category        string          `json:"category"          validate:"required,max=64"`
	Description     string          `json:"description"`
	RelatedEntityID string          `json:"related_entity_id" validate:"omitempty,hex32"`
}

func (h *LedgerHandler) ListTransactions(c echo.Context) error {
	var f domain.Filter
	if raw := c.QueryParam("type"); raw != "" {
		t, ok := domain.ParseType(raw)
		if !ok {
			return invalidParam(c, "type", "must be one of CREDIT DEBIT")
		}
		f.Type = t
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return invalidParam(c, "limit", "must be a non-negative integer")
		}
		f.Limit = n
	}
	entries, err := h.book.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *LedgerHandler) RecordTransaction(c echo.Context) error {
	var req recordTxReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return invalidParam(c, "date", "must be a date in "+dateLayout+" format")
	}
	e, err := h.book.Record(c.Request().Context(), ledger.RecordInput{
		Date:            date,
		Amount:          req.Amount,
		Type:            domain.Type(req.Type),
		Category:        req.Category,
		Description:     req.Description,
		RelatedEntityID: req.RelatedEntityID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *LedgerHandler) Summary(c echo.Context) error {
	s, err := h.reports.Summary(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LedgerHandler) InvestmentBreakdown(c echo.Context) error {
	rows, err := h.reports.Breakdown(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
