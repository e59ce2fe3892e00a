package gormrepo

import (
	"context"
	"time"

	instDomain "debtsify-backend/internal/domain/installment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, items []*instDomain.Installment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *InstallmentRepository) GetByInstallmentID(ctx context.Context, installmentID string) (*instDomain.Installment, error) {
	var out instDomain.Installment
	res := r.db.WithContext(ctx).Where("installment_id = ?", installmentID).First(&out)
	return &out, res.Error
}

func (r *InstallmentRepository) GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*instDomain.Installment, error) {
	var out instDomain.Installment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("installment_id = ?", installmentID).
		First(&out)
	return &out, res.Error
}

// Transition is a compare-and-set on status: the row is only written while it
// still holds one of the from statuses.
func (r *InstallmentRepository) Transition(ctx context.Context, in *instDomain.Installment, from ...instDomain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&instDomain.Installment{}).
		Where("installment_id = ? AND status IN ?", in.InstallmentID, from).
		Updates(map[string]any{
			"status":      in.Status,
			"paid_amount": in.PaidAmount,
			"paid_date":   in.PaidDate,
			"penalty":     in.Penalty,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return instDomain.ErrStale
	}
	return nil
}

func (r *InstallmentRepository) NextAfter(ctx context.Context, loanID string, due time.Time) (*instDomain.Installment, error) {
	var out instDomain.Installment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND due_date > ?", loanID, due).
		Order("due_date ASC, id ASC").
		First(&out)
	return &out, res.Error
}

// DeleteUnpaid soft-deletes the row so the audit trail survives.
func (r *InstallmentRepository) DeleteUnpaid(ctx context.Context, installmentID string) error {
	res := r.db.WithContext(ctx).
		Where("installment_id = ? AND status <> ?", installmentID, instDomain.StatusPaid).
		Delete(&instDomain.Installment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return instDomain.ErrStale
	}
	return nil
}

func (r *InstallmentRepository) RenameClient(ctx context.Context, loanID, clientName string) error {
	return r.db.WithContext(ctx).
		Model(&instDomain.Installment{}).
		Where("loan_id = ?", loanID).
		Update("client_name", clientName).Error
}

func (r *InstallmentRepository) List(ctx context.Context, f instDomain.Filter) ([]*instDomain.Installment, error) {
	q := r.db.WithContext(ctx).Model(&instDomain.Installment{})
	if f.LoanID != "" {
		q = q.Where("loan_id = ?", f.LoanID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	var out []*instDomain.Installment
	res := q.Order("due_date ASC, id ASC").Find(&out)
	return out, res.Error
}
