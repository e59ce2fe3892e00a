package ledger

import (
	"context"
	"strings"
	"time"

	"debtsify-backend/internal/domain/apperr"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/pkg/clock"
	"debtsify-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// RecordInput is a manual cash movement: operating expenses, capital
// injections, withdrawals.
type RecordInput struct {
	Date            time.Time // zero means now
	Amount          decimal.Decimal
	Type            ledger.Type
	Category        string
	Description     string
	RelatedEntityID string
}

type Usecase struct {
	book  ledger.Repository
	clock clock.Clock
	log   logrus.FieldLogger
}

func NewUsecase(book ledger.Repository, c clock.Clock, log logrus.FieldLogger) *Usecase {
	return &Usecase{book: book, clock: c, log: log}
}

func (u *Usecase) Record(ctx context.Context, in RecordInput) (*ledger.Entry, error) {
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount must be positive")
	}
	typ, ok := ledger.ParseType(string(in.Type))
	if !ok {
		return nil, apperr.Validation("type must be CREDIT or DEBIT")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperr.Validation("category is required")
	}

	e := &ledger.Entry{
		EntryID:     id.NewID32(),
		Date:        in.Date,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
	}
	if e.Date.IsZero() {
		e.Date = u.clock.Now()
	}
	if rel := strings.TrimSpace(in.RelatedEntityID); rel != "" {
		e.RelatedEntityID = &rel
	}

	if err := u.book.Append(ctx, e); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"entry_id": e.EntryID,
		"type":     e.Type,
		"category": e.Category,
		"amount":   e.Amount.String(),
	}).Info("manual ledger entry recorded")
	return e, nil
}

// List returns entries newest first, DefaultLimit of them unless told otherwise.
func (u *Usecase) List(ctx context.Context, f ledger.Filter) ([]*ledger.Entry, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return u.book.List(ctx, f)
}
