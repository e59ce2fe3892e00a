package gormrepo

import (
	"testing"
	"time"

	instDomain "debtsify-backend/internal/domain/installment"
	loanDomain "debtsify-backend/internal/domain/loan"
	"debtsify-backend/internal/infrastructure/db"
	"debtsify-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

// openTestDB gives every test its own named in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log, _ := test.NewNullLogger()
	gdb, err := db.OpenSQLite("file:"+id.NewID32()+"?mode=memory&cache=shared", log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

var day0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func makeLoan(loanID, client string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:           loanID,
		ClientName:       client,
		Type:             loanDomain.TypeTotalRate,
		PrincipalAmount:  decimal.NewFromInt(10_000),
		StartDate:        day0,
		IntervalDays:     7,
		Multiplier:       decimal.RequireFromString("1.2"),
		InstallmentCount: 10,
		DailyRate:        decimal.Zero,
		ProcessingFeePct: decimal.Zero,
		PayoutPct:        decimal.Zero,
		Status:           loanDomain.StatusActive,
		StatusUpdatedAt:  day0,
	}
}

func makeInstallment(loanID string, due time.Time, amount int64) *instDomain.Installment {
	return &instDomain.Installment{
		InstallmentID:  id.NewID32(),
		LoanID:         loanID,
		ClientName:     "Ravi",
		DueDate:        due,
		ExpectedAmount: decimal.NewFromInt(amount),
		PaidAmount:     decimal.Zero,
		Penalty:        decimal.Zero,
		Status:         instDomain.StatusPending,
		Kind:           instDomain.KindRegular,
	}
}
