package schedule

import (
	"testing"
	"time"

	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func totalRateLoan(principal int64, multiplier string, count, interval int) *loan.Loan {
	return &loan.Loan{
		LoanID:           "loan-total",
		ClientName:       "Asha",
		Type:             loan.TypeTotalRate,
		PrincipalAmount:  decimal.NewFromInt(principal),
		StartDate:        start,
		IntervalDays:     interval,
		Multiplier:       decimal.RequireFromString(multiplier),
		InstallmentCount: count,
		Status:           loan.StatusActive,
	}
}

func dailyRateLoan(principal int64, rate string, interval int) *loan.Loan {
	return &loan.Loan{
		LoanID:          "loan-daily",
		ClientName:      "Meena",
		Type:            loan.TypeDailyRate,
		PrincipalAmount: decimal.NewFromInt(principal),
		StartDate:       start,
		IntervalDays:    interval,
		DailyRate:       decimal.RequireFromString(rate),
		Status:          loan.StatusActive,
	}
}

func TestInitial_TotalRateWeekly(t *testing.T) {
	l := totalRateLoan(10_000, "1.2", 10, 7)
	items := Initial(l)

	require.Len(t, items, 10)
	for i, it := range items {
		assert.True(t, it.ExpectedAmount.Equal(decimal.NewFromInt(1200)), "installment %d amount %s", i, it.ExpectedAmount)
		assert.Equal(t, start.AddDate(0, 0, (i+1)*7), it.DueDate)
		assert.Equal(t, installment.KindRegular, it.Kind)
		assert.Equal(t, installment.StatusPending, it.Status)
		assert.Equal(t, "loan-total", it.LoanID)
		assert.Equal(t, "Asha", it.ClientName)
		assert.True(t, it.PaidAmount.IsZero())
		assert.True(t, it.Penalty.IsZero())
		assert.Len(t, it.InstallmentID, 32)
	}
}

func TestInitial_TotalRateRoundsUpNeverDown(t *testing.T) {
	cases := []struct {
		principal  int64
		multiplier string
		count      int
	}{
		{1000, "1", 3},
		{10_000, "1.15", 7},
		{99_999, "1.333", 13},
		{5, "1", 10},
		{250_000, "1.2", 1},
	}
	for _, c := range cases {
		l := totalRateLoan(c.principal, c.multiplier, c.count, 1)
		items := Initial(l)
		require.Len(t, items, c.count)

		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.ExpectedAmount)
			assert.True(t, it.ExpectedAmount.Equal(it.ExpectedAmount.Ceil()), "amount %s must be whole", it.ExpectedAmount)
		}
		assert.True(t, sum.GreaterThanOrEqual(l.TotalRepayable()),
			"sum %s < repayable %s for %+v", sum, l.TotalRepayable(), c)
	}
}

func TestInitial_DailyRateSingleInterestInstallment(t *testing.T) {
	l := dailyRateLoan(100_000, "100", 7)
	items := Initial(l)

	require.Len(t, items, 1)
	assert.True(t, items[0].ExpectedAmount.Equal(decimal.NewFromInt(700)), "got %s", items[0].ExpectedAmount)
	assert.Equal(t, start.AddDate(0, 0, 7), items[0].DueDate)
	assert.Equal(t, installment.KindInterestOnly, items[0].Kind)
}

func TestInterestFor_Rounding(t *testing.T) {
	assert.True(t, InterestFor(dailyRateLoan(30_000, "100", 1)).Equal(decimal.NewFromInt(30)))
	// 12345 / 100000 × 90 × 7 = 77.77… → 78
	assert.True(t, InterestFor(dailyRateLoan(12_345, "90", 7)).Equal(decimal.NewFromInt(78)))
	assert.True(t, InterestFor(dailyRateLoan(50_000, "0", 30)).IsZero())
}

func TestNextInterest(t *testing.T) {
	l := dailyRateLoan(100_000, "100", 7)
	first := Initial(l)[0]

	next := NextInterest(l, first)
	require.NotNil(t, next)
	assert.Equal(t, first.DueDate.AddDate(0, 0, 7), next.DueDate)
	assert.True(t, next.ExpectedAmount.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, installment.KindInterestOnly, next.Kind)
	assert.NotEqual(t, first.InstallmentID, next.InstallmentID)

	tl := totalRateLoan(10_000, "1.2", 10, 7)
	assert.Nil(t, NextInterest(tl, Initial(tl)[0]), "TOTAL_RATE never chains")
}
