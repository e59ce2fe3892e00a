package installment

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, items []*Installment) error
	GetByInstallmentID(ctx context.Context, installmentID string) (*Installment, error)
	GetByInstallmentIDForUpdate(ctx context.Context, installmentID string) (*Installment, error)

	// Transition persists status, paid amount, paid date and penalty of in, but
	// only if the stored row is still in one of the from statuses. ErrStale otherwise.
	Transition(ctx context.Context, in *Installment, from ...Status) error

	// NextAfter returns the earliest installment of the loan due after the given date.
	NextAfter(ctx context.Context, loanID string, due time.Time) (*Installment, error)
	// DeleteUnpaid removes an installment that has not been paid. ErrStale if it was.
	DeleteUnpaid(ctx context.Context, installmentID string) error

	RenameClient(ctx context.Context, loanID, clientName string) error
	List(ctx context.Context, f Filter) ([]*Installment, error)
}
