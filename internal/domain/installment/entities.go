package installment

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrStale is returned by a compare-and-set write that matched no row in the
// expected state.
var ErrStale = errors.New("installment changed concurrently")

type Status string

const (
	StatusPending Status = "PENDING"
	StatusOverdue Status = "OVERDUE"
	StatusPaid    Status = "PAID"
)

type Kind string

const (
	KindRegular             Kind = "REGULAR"
	KindInterestOnly        Kind = "INTEREST_ONLY"
	KindPrincipalSettlement Kind = "PRINCIPAL_SETTLEMENT"
)

// Unpaid lists the stored statuses a payment may transition from.
var Unpaid = []Status{StatusPending, StatusOverdue}

type Installment struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	InstallmentID string `gorm:"size:32;uniqueIndex:ux_installments_installment_id" json:"installment_id"`
	LoanID        string `gorm:"size:32;not null;index:idx_installments_loan_due,priority:1" json:"loan_id"`
	ClientName    string `gorm:"size:200" json:"client_name"`

	DueDate        time.Time       `gorm:"type:date;not null;index:idx_installments_loan_due,priority:2" json:"due_date"`
	ExpectedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"expected_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"paid_amount"`
	Penalty        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"penalty"`
	Status         Status          `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	PaidDate       *time.Time      `gorm:"type:date" json:"paid_date"`
	Kind           Kind            `gorm:"size:24;not null" json:"type"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Installment) TableName() string { return "installments" }

func (i *Installment) IsPaid() bool { return i.Status == StatusPaid }

// TotalDue is what a payment made right now would charge.
func (i *Installment) TotalDue() decimal.Decimal { return i.ExpectedAmount.Add(i.Penalty) }

// DisplayStatus derives OVERDUE for a pending installment whose due date has
// passed. The stored status is left alone.
func (i *Installment) DisplayStatus(today time.Time) Status {
	if i.Status == StatusPending && i.DueDate.Before(today) {
		return StatusOverdue
	}
	return i.Status
}

// StatusAfterRevert is the status written back when a payment is undone.
func (i *Installment) StatusAfterRevert(today time.Time) Status {
	if i.DueDate.Before(today) {
		return StatusOverdue
	}
	return StatusPending
}

type Filter struct {
	LoanID string
	// Stored status; OVERDUE display filtering is done by the caller.
	Statuses []Status
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusOverdue, StatusPaid:
		return st, true
	}
	return "", false
}
