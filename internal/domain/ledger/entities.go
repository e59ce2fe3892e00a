package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCredit Type = "CREDIT" // money in
	TypeDebit  Type = "DEBIT"  // money out
)

const (
	CategoryDisbursement        = "Loan Disbursement"
	CategoryPayout              = "Payout"
	CategoryProcessingFee       = "Processing Fee"
	CategoryRepayment           = "Repayment"
	CategoryPrincipalSettlement = "Principal Settlement"
	CategoryCorrection          = "Correction"
)

// Entry is one cash movement. Entries are append-only; a mistake is undone by
// a compensating entry, never by editing.
type Entry struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntryID         string          `gorm:"size:32;uniqueIndex:ux_transactions_entry_id" json:"id"`
	Date            time.Time       `gorm:"not null;index:idx_transactions_date" json:"date"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Type            Type            `gorm:"size:8;not null" json:"type"`
	Category        string          `gorm:"size:64;not null" json:"category"`
	Description     string          `gorm:"type:text" json:"description"`
	RelatedEntityID *string         `gorm:"size:32;index" json:"related_entity_id,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "transactions" }

// Signed is the entry's effect on cash in hand.
func (e *Entry) Signed() decimal.Decimal {
	if e.Type == TypeDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

type Filter struct {
	Type  Type
	Limit int
}

func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeCredit, TypeDebit:
		return t, true
	}
	return "", false
}
