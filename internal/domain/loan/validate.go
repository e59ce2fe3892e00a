package loan

import (
	"strings"

	"debtsify-backend/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

const (
	// MaxInstallments caps a TOTAL_RATE schedule, which is built in one go.
	MaxInstallments = 1000

	// MaxTermDays caps interval_days and duration_days (ten years).
	MaxTermDays = 3650

	// TermScale is the number of decimal places kept for multiplier and daily rate.
	TermScale = 4
)

// Validate checks the financial terms before any schedule is derived from them.
func (l *Loan) Validate() error {
	if strings.TrimSpace(l.ClientName) == "" {
		return apperr.Validation("client_name is required")
	}
	if !l.PrincipalAmount.IsPositive() {
		return apperr.Validation("principal_amount must be positive")
	}
	if l.IntervalDays < 1 {
		return apperr.Validation("interval_days must be at least 1")
	}
	if l.IntervalDays > MaxTermDays {
		return apperr.Validation("interval_days must be at most %d", MaxTermDays)
	}
	if l.StartDate.IsZero() {
		return apperr.Validation("start_date is required")
	}
	for name, pct := range map[string]decimal.Decimal{"processing_fee_pct": l.ProcessingFeePct, "payout_pct": l.PayoutPct} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return apperr.Validation("%s must be between 0 and 100", name)
		}
	}

	switch l.Type {
	case TypeTotalRate:
		if l.Multiplier.LessThan(decimal.NewFromInt(1)) {
			return apperr.Validation("multiplier must be at least 1")
		}
		if l.InstallmentCount < 1 {
			return apperr.Validation("installment_count must be at least 1")
		}
		if l.InstallmentCount > MaxInstallments {
			return apperr.Validation("installment_count must be at most %d", MaxInstallments)
		}
		if !l.Multiplier.Equal(l.Multiplier.Round(TermScale)) {
			return apperr.Validation("multiplier must have at most %d decimal places", TermScale)
		}
	case TypeDailyRate:
		if l.DailyRate.IsNegative() {
			return apperr.Validation("daily_rate must not be negative")
		}
		if !l.DailyRate.Equal(l.DailyRate.Round(TermScale)) {
			return apperr.Validation("daily_rate must have at most %d decimal places", TermScale)
		}
	default:
		return apperr.Validation("unknown loan type %q", l.Type)
	}
	return nil
}

// CountForDuration is the number of installments needed to cover durationDays
// at one installment every intervalDays, rounded up.
func CountForDuration(durationDays, intervalDays int) int {
	if durationDays <= 0 || intervalDays <= 0 {
		return 0
	}
	return (durationDays + intervalDays - 1) / intervalDays
}

// FeeAmount is pct percent of the principal, rounded to cents.
func (l *Loan) FeeAmount(pct decimal.Decimal) decimal.Decimal {
	return l.PrincipalAmount.Mul(pct).Div(hundred).Round(2)
}
