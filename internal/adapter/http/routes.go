package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health       *Handler
	Loans        *LoanHandler
	Installments *InstallmentHandler
	Ledger       *LedgerHandler
}

// RegisterRoutes mounts every endpoint. idem guards the routes that move money
// so a retried request is answered from the first response; nil disables it.
func RegisterRoutes(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	var money []echo.MiddlewareFunc
	if idem != nil {
		money = append(money, idem)
	}

	e.GET("/health", h.Health.Health)

	e.POST("/loans", h.Loans.CreateLoan, money...)
	e.GET("/loans", h.Loans.ListLoans)
	e.GET("/loans/:loan_id", h.Loans.GetLoan)
	e.PATCH("/loans/:loan_id", h.Loans.RenameLoan)
	e.POST("/loans/:loan_id/write-off", h.Loans.WriteOff)
	e.GET("/loans/:loan_id/installments", h.Loans.ListInstallments)

	e.GET("/installments", h.Installments.List)
	e.GET("/installments/:installment_id", h.Installments.Get)
	e.POST("/installments/:installment_id/pay", h.Installments.Pay, money...)
	e.POST("/installments/:installment_id/settle-principal", h.Installments.SettlePrincipal, money...)
	e.POST("/installments/:installment_id/revert", h.Installments.Revert, money...)
	e.PUT("/installments/:installment_id/penalty", h.Installments.EditPenalty)

	e.GET("/transactions", h.Ledger.ListTransactions)
	e.POST("/transactions", h.Ledger.RecordTransaction, money...)

	e.GET("/summary", h.Ledger.Summary)
	e.GET("/investment-breakdown", h.Ledger.InvestmentBreakdown)
}
