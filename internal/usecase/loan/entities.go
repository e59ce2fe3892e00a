package loan

import (
	"time"

	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	ClientName      string
	Type            loan.Type
	PrincipalAmount decimal.Decimal
	StartDate       time.Time

	// Either IntervalDays or a named Frequency (DAILY, WEEKLY, BIWEEKLY, MONTHLY).
	IntervalDays int
	Frequency    string

	// TOTAL_RATE: InstallmentCount, or DurationDays to derive it.
	Multiplier       decimal.Decimal
	InstallmentCount int
	DurationDays     int

	// DAILY_RATE
	DailyRate decimal.Decimal

	ProcessingFeePct decimal.Decimal
	PayoutPct        decimal.Decimal
}

type CreateLoanResult struct {
	Loan         *loan.Loan                 `json:"loan"`
	Installments []*installment.Installment `json:"installments"`
	Transactions []*ledger.Entry            `json:"transactions"`
}
