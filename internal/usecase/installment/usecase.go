package installment

import (
	"context"

	"debtsify-backend/internal/domain/apperr"
	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/loan"
	"debtsify-backend/pkg/clock"
)

type ListInput struct {
	LoanID string
	// Display status; OVERDUE matches pending installments past their due date.
	Status installment.Status
}

// Usecase serves installment reads. Every installment it returns carries its
// display status, derived against the injected clock.
type Usecase struct {
	loans loan.Repository
	items installment.Repository
	clock clock.Clock
}

func NewUsecase(loans loan.Repository, items installment.Repository, c clock.Clock) *Usecase {
	return &Usecase{loans: loans, items: items, clock: c}
}

func (u *Usecase) Get(ctx context.Context, installmentID string) (*installment.Installment, error) {
	it, err := u.items.GetByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, apperr.Lookup(err, "installment %s", installmentID)
	}
	it.Status = it.DisplayStatus(clock.Today(u.clock))
	return it, nil
}

// List returns installments ordered by due date. Naming a loan that does not
// exist is ErrNotFound rather than an empty list.
func (u *Usecase) List(ctx context.Context, in ListInput) ([]*installment.Installment, error) {
	if in.LoanID != "" {
		if _, err := u.loans.GetByLoanID(ctx, in.LoanID); err != nil {
			return nil, apperr.Lookup(err, "loan %s", in.LoanID)
		}
	}

	f := installment.Filter{LoanID: in.LoanID}
	switch in.Status {
	case "":
	case installment.StatusPaid:
		f.Statuses = []installment.Status{installment.StatusPaid}
	case installment.StatusPending, installment.StatusOverdue:
		f.Statuses = installment.Unpaid
	default:
		return nil, apperr.Validation("unknown status %q", in.Status)
	}

	items, err := u.items.List(ctx, f)
	if err != nil {
		return nil, err
	}

	today := clock.Today(u.clock)
	out := make([]*installment.Installment, 0, len(items))
	for _, it := range items {
		it.Status = it.DisplayStatus(today)
		if in.Status != "" && it.Status != in.Status {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
