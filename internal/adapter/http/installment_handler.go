package http

import (
	"net/http"
	"strings"

	"debtsify-backend/internal/domain/installment"
	instuc "debtsify-backend/internal/usecase/installment"
	"debtsify-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type InstallmentHandler struct {
	items *instuc.Usecase
	pay   *payment.Usecase
}

func NewInstallmentHandler(items *instuc.Usecase, pay *payment.Usecase) *InstallmentHandler {
	return &InstallmentHandler{items: items, pay: pay}
}

type editPenaltyReq struct {
	Penalty decimal.Decimal `json:"penalty" validate:"dgte0,dec2"`
}

func (h *InstallmentHandler) List(c echo.Context) error {
	items, err := h.items.List(c.Request().Context(), instuc.ListInput{
		LoanID: c.QueryParam("loan_id"),
		Status: installment.Status(strings.ToUpper(c.QueryParam("status"))),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InstallmentHandler) Get(c echo.Context) error {
	it, err := h.items.Get(c.Request().Context(), c.Param("installment_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *InstallmentHandler) Pay(c echo.Context) error {
	res, err := h.pay.Pay(c.Request().Context(), c.Param("installment_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *InstallmentHandler) SettlePrincipal(c echo.Context) error {
	res, err := h.pay.SettlePrincipal(c.Request().Context(), c.Param("installment_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *InstallmentHandler) Revert(c echo.Context) error {
	res, err := h.pay.Revert(c.Request().Context(), c.Param("installment_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *InstallmentHandler) EditPenalty(c echo.Context) error {
	var req editPenaltyReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	it, err := h.pay.EditPenalty(c.Request().Context(), c.Param("installment_id"), req.Penalty)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, it)
}
