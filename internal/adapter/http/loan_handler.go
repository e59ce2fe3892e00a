package http

import (
	"net/http"
	"strings"

	"debtsify-backend/internal/domain/installment"
	domain "debtsify-backend/internal/domain/loan"
	instuc "debtsify-backend/internal/usecase/installment"
	"debtsify-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	uc    *loan.Usecase
	items *instuc.Usecase
}

func NewLoanHandler(uc *loan.Usecase, items *instuc.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, items: items}
}

type createLoanReq struct {
	ClientName      string          `json:"client_name"      validate:"required,max=200"`
	Type            string          `json:"type"             validate:"required,oneof=TOTAL_RATE DAILY_RATE"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" validate:"dpos,dec2"`
	StartDate       string          `json:"start_date"       validate:"required,datetime=2006-01-02"`

	IntervalDays int    `json:"interval_days" validate:"gte=0,lte=3650"`
	Frequency    string `json:"frequency"     validate:"omitempty,oneof=DAILY WEEKLY BIWEEKLY MONTHLY"`

	Multiplier       decimal.Decimal `json:"multiplier"        validate:"dgte0,dec4"`
	InstallmentCount int             `json:"installment_count" validate:"gte=0,lte=1000"`
	DurationDays     int             `json:"duration_days"     validate:"gte=0,lte=3650"`

	DailyRate decimal.Decimal `json:"daily_rate" validate:"dgte0,dec4"`

	ProcessingFeePct decimal.Decimal `json:"processing_fee_pct" validate:"dgte0,dec2"`
	PayoutPct        decimal.Decimal `json:"payout_pct"         validate:"dgte0,dec2"`
}

type renameLoanReq struct {
	ClientName string `json:"client_name" validate:"required,max=200"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return invalidParam(c, "start_date", "must be a date in "+dateLayout+" format")
	}
	res, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		ClientName:       req.ClientName,
		Type:             domain.Type(req.Type),
		PrincipalAmount:  req.PrincipalAmount,
		StartDate:        start,
		IntervalDays:     req.IntervalDays,
		Frequency:        req.Frequency,
		Multiplier:       req.Multiplier,
		InstallmentCount: req.InstallmentCount,
		DurationDays:     req.DurationDays,
		DailyRate:        req.DailyRate,
		ProcessingFeePct: req.ProcessingFeePct,
		PayoutPct:        req.PayoutPct,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	var f domain.Filter
	if raw := c.QueryParam("status"); raw != "" {
		st, ok := domain.ParseStatus(raw)
		if !ok {
			return invalidParam(c, "status", "must be one of ACTIVE CLOSED BAD_DEBT")
		}
		f.Status = st
	}
	loans, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// RenameLoan is the only edit a loan accepts after creation.
func (h *LoanHandler) RenameLoan(c echo.Context) error {
	var req renameLoanReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	l, err := h.uc.Rename(c.Request().Context(), c.Param("loan_id"), req.ClientName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) WriteOff(c echo.Context) error {
	l, err := h.uc.WriteOff(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) ListInstallments(c echo.Context) error {
	items, err := h.items.List(c.Request().Context(), instuc.ListInput{
		LoanID: c.Param("loan_id"),
		Status: installment.Status(strings.ToUpper(c.QueryParam("status"))),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
