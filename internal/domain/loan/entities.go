package loan

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeTotalRate Type = "TOTAL_RATE"
	TypeDailyRate Type = "DAILY_RATE"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusClosed  Status = "CLOSED"
	StatusBadDebt Status = "BAD_DEBT"
)

// RateUnit is the principal that DailyRate is quoted against (one lakh).
var RateUnit = decimal.NewFromInt(100_000)

type Loan struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	ClientName string `gorm:"size:200;not null" json:"client_name"`
	Type       Type   `gorm:"size:16;not null" json:"type"`

	PrincipalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principal_amount"`
	StartDate       time.Time       `gorm:"type:date;not null" json:"start_date"`
	IntervalDays    int             `gorm:"not null" json:"interval_days"`

	// TOTAL_RATE terms
	Multiplier       decimal.Decimal `gorm:"type:decimal(10,4)" json:"multiplier"`
	InstallmentCount int             `json:"installment_count"`
	// DAILY_RATE terms: charged per RateUnit of principal per day
	DailyRate decimal.Decimal `gorm:"type:decimal(12,4)" json:"daily_rate"`

	ProcessingFeePct decimal.Decimal `gorm:"type:decimal(6,2)" json:"processing_fee_pct"`
	PayoutPct        decimal.Decimal `gorm:"type:decimal(6,2)" json:"payout_pct"`

	Status          Status    `gorm:"size:16;not null;default:'ACTIVE';index:idx_loans_status" json:"status"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// TotalRepayable is the gross receivable of the loan: principal × multiplier for
// TOTAL_RATE, the principal alone for DAILY_RATE (interest resets every cycle).
func (l *Loan) TotalRepayable() decimal.Decimal {
	if l.Type == TypeTotalRate {
		return l.PrincipalAmount.Mul(l.Multiplier)
	}
	return l.PrincipalAmount
}

func (l *Loan) IsActive() bool { return l.Status == StatusActive }

type Filter struct {
	Status Status
}

// Frequencies accepted in place of an explicit interval.
var frequencyDays = map[string]int{
	"DAILY":    1,
	"WEEKLY":   7,
	"BIWEEKLY": 15,
	"MONTHLY":  30,
}

// IntervalForFrequency resolves a named payment frequency to its interval in days.
func IntervalForFrequency(freq string) (int, bool) {
	n, ok := frequencyDays[strings.ToUpper(strings.TrimSpace(freq))]
	return n, ok
}

func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeTotalRate, TypeDailyRate:
		return t, true
	}
	return "", false
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusClosed, StatusBadDebt:
		return st, true
	}
	return "", false
}
