package report

import (
	"context"

	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"
	"debtsify-backend/internal/domain/summary"
	"debtsify-backend/internal/domain/uow"

	"github.com/sirupsen/logrus"
)

type snapshot struct {
	loans   []*loan.Loan
	items   []*installment.Installment
	entries []*ledger.Entry
}

// Usecase reads all three collections inside one transaction so a report never
// mixes state from before and after a concurrent payment.
type Usecase struct {
	uow uow.UnitOfWork
	log logrus.FieldLogger
}

func NewUsecase(tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

func (u *Usecase) load(ctx context.Context, withEntries bool) (*snapshot, error) {
	s := &snapshot{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if s.loans, err = r.Loans.List(ctx, loan.Filter{}); err != nil {
			return err
		}
		if s.items, err = r.Installments.List(ctx, installment.Filter{}); err != nil {
			return err
		}
		if withEntries {
			s.entries, err = r.Ledger.List(ctx, ledger.Filter{})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"loans":        len(s.loans),
		"installments": len(s.items),
		"entries":      len(s.entries),
	}).Debug("report snapshot loaded")
	return s, nil
}

func (u *Usecase) Summary(ctx context.Context) (*summary.Summary, error) {
	s, err := u.load(ctx, true)
	if err != nil {
		return nil, err
	}
	out := summary.Compute(s.loans, s.items, s.entries)
	return &out, nil
}

func (u *Usecase) Breakdown(ctx context.Context) ([]summary.Row, error) {
	s, err := u.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return summary.Breakdown(s.loans, s.items), nil
}
