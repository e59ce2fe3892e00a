package installmentmock

import (
	"context"
	"time"

	domain "debtsify-backend/internal/domain/installment"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to gorm.ErrRecordNotFound.
type Repo struct {
	CreateBatchFn                 func(ctx context.Context, items []*domain.Installment) error
	GetByInstallmentIDFn          func(ctx context.Context, installmentID string) (*domain.Installment, error)
	GetByInstallmentIDForUpdateFn func(ctx context.Context, installmentID string) (*domain.Installment, error)
	TransitionFn                  func(ctx context.Context, in *domain.Installment, from ...domain.Status) error
	NextAfterFn                   func(ctx context.Context, loanID string, due time.Time) (*domain.Installment, error)
	DeleteUnpaidFn                func(ctx context.Context, installmentID string) error
	RenameClientFn                func(ctx context.Context, loanID, clientName string) error
	ListFn                        func(ctx context.Context, f domain.Filter) ([]*domain.Installment, error)
}

func (m *Repo) CreateBatch(ctx context.Context, items []*domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, items)
	}
	return nil
}

func (m *Repo) GetByInstallmentID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	if m.GetByInstallmentIDFn != nil {
		return m.GetByInstallmentIDFn(ctx, installmentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error) {
	if m.GetByInstallmentIDForUpdateFn != nil {
		return m.GetByInstallmentIDForUpdateFn(ctx, installmentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Transition(ctx context.Context, in *domain.Installment, from ...domain.Status) error {
	if m.TransitionFn != nil {
		return m.TransitionFn(ctx, in, from...)
	}
	return nil
}

func (m *Repo) NextAfter(ctx context.Context, loanID string, due time.Time) (*domain.Installment, error) {
	if m.NextAfterFn != nil {
		return m.NextAfterFn(ctx, loanID, due)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) DeleteUnpaid(ctx context.Context, installmentID string) error {
	if m.DeleteUnpaidFn != nil {
		return m.DeleteUnpaidFn(ctx, installmentID)
	}
	return nil
}

func (m *Repo) RenameClient(ctx context.Context, loanID, clientName string) error {
	if m.RenameClientFn != nil {
		return m.RenameClientFn(ctx, loanID, clientName)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]*domain.Installment, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
