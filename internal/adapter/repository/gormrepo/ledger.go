package gormrepo

import (
	"context"

	ledgerDomain "debtsify-backend/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Append(ctx context.Context, entries ...*ledgerDomain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// List returns newest entries first. A zero limit returns everything.
func (r *LedgerRepository) List(ctx context.Context, f ledgerDomain.Filter) ([]*ledgerDomain.Entry, error) {
	q := r.db.WithContext(ctx).Model(&ledgerDomain.Entry{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []*ledgerDomain.Entry
	res := q.Order("date DESC, id DESC").Find(&out)
	return out, res.Error
}
