// Package schedule derives installments from a loan's terms. Nothing here
// touches storage; callers persist what it returns.
package schedule

import (
	"time"

	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/loan"
	"debtsify-backend/pkg/clock"
	"debtsify-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// InstallmentAmount is ceil(principal × multiplier / count). The ceiling
// remainder is not reconciled, so the schedule total may exceed the repayable
// amount by up to count-1 units.
func InstallmentAmount(l *loan.Loan) decimal.Decimal {
	total := l.PrincipalAmount.Mul(l.Multiplier)
	return total.Div(decimal.NewFromInt(int64(l.InstallmentCount))).Ceil()
}

// InterestFor is one cycle of DAILY_RATE interest:
// ceil(principal / RateUnit × rate × interval_days).
func InterestFor(l *loan.Loan) decimal.Decimal {
	return l.PrincipalAmount.
		Mul(l.DailyRate).
		Mul(decimal.NewFromInt(int64(l.IntervalDays))).
		Div(loan.RateUnit).
		Ceil()
}

// Initial builds the installments created together with the loan: the full
// REGULAR schedule for TOTAL_RATE, the first INTEREST_ONLY cycle for DAILY_RATE.
// The loan is expected to have passed Validate.
func Initial(l *loan.Loan) []*installment.Installment {
	start := clock.Date(l.StartDate)
	switch l.Type {
	case loan.TypeTotalRate:
		amount := InstallmentAmount(l)
		out := make([]*installment.Installment, 0, l.InstallmentCount)
		for i := 1; i <= l.InstallmentCount; i++ {
			out = append(out, newInstallment(l, clock.AddDays(start, i*l.IntervalDays), amount, installment.KindRegular))
		}
		return out
	case loan.TypeDailyRate:
		return []*installment.Installment{
			newInstallment(l, clock.AddDays(start, l.IntervalDays), InterestFor(l), installment.KindInterestOnly),
		}
	}
	return nil
}

// NextInterest chains the DAILY_RATE cycle following prev. Returns nil when the
// loan does not chain.
func NextInterest(l *loan.Loan, prev *installment.Installment) *installment.Installment {
	if l.Type != loan.TypeDailyRate || prev.Kind != installment.KindInterestOnly {
		return nil
	}
	return newInstallment(l, clock.AddDays(prev.DueDate, l.IntervalDays), InterestFor(l), installment.KindInterestOnly)
}

func newInstallment(l *loan.Loan, due time.Time, amount decimal.Decimal, kind installment.Kind) *installment.Installment {
	return &installment.Installment{
		InstallmentID:  id.NewID32(),
		LoanID:         l.LoanID,
		ClientName:     l.ClientName,
		DueDate:        due,
		ExpectedAmount: amount,
		PaidAmount:     decimal.Zero,
		Penalty:        decimal.Zero,
		Status:         installment.StatusPending,
		Kind:           kind,
	}
}
