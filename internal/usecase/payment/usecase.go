package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"debtsify-backend/internal/domain/apperr"
	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"
	"debtsify-backend/internal/domain/schedule"
	"debtsify-backend/internal/domain/uow"
	"debtsify-backend/pkg/clock"
	"debtsify-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	uow   uow.UnitOfWork
	clock clock.Clock
	log   logrus.FieldLogger
}

func NewUsecase(tx uow.UnitOfWork, c clock.Clock, log logrus.FieldLogger) *Usecase {
	return &Usecase{uow: tx, clock: c, log: log}
}

// lockPair locks the parent loan, then the installment, matching the order
// WithinLoanTx uses so concurrent writers cannot deadlock each other.
func lockPair(ctx context.Context, r uow.Repos, installmentID string) (*installment.Installment, *loan.Loan, error) {
	peek, err := r.Installments.GetByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, nil, apperr.Lookup(err, "installment %s", installmentID)
	}
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, peek.LoanID)
	if err != nil {
		return nil, nil, apperr.Lookup(err, "loan %s", peek.LoanID)
	}
	in, err := r.Installments.GetByInstallmentIDForUpdate(ctx, installmentID)
	if err != nil {
		return nil, nil, apperr.Lookup(err, "installment %s", installmentID)
	}
	return in, l, nil
}

func stale(err error, installmentID string) error {
	if errors.Is(err, installment.ErrStale) {
		return apperr.InvalidState("installment %s was changed by a concurrent request", installmentID)
	}
	return err
}

// settle marks in as paid in full and books the repayment. No chaining.
func (u *Usecase) settle(ctx context.Context, r uow.Repos, in *installment.Installment, now time.Time) (*ledger.Entry, error) {
	if in.IsPaid() {
		return nil, apperr.InvalidState("installment %s is already paid", in.InstallmentID)
	}
	total := in.TotalDue()
	today := clock.Date(now)

	in.Status = installment.StatusPaid
	in.PaidAmount = total
	in.PaidDate = &today
	if err := r.Installments.Transition(ctx, in, installment.Unpaid...); err != nil {
		return nil, stale(err, in.InstallmentID)
	}
	if !total.IsPositive() {
		return nil, nil
	}

	e := newEntry(now, total, ledger.TypeCredit, ledger.CategoryRepayment,
		fmt.Sprintf("Installment payment from %s (due %s)", in.ClientName, in.DueDate.Format(time.DateOnly)),
		in.InstallmentID)
	if err := r.Ledger.Append(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Pay settles an installment in full: expected amount plus the current penalty.
// Paying a DAILY_RATE interest cycle on an ACTIVE loan chains the next cycle.
func (u *Usecase) Pay(ctx context.Context, installmentID string) (*PayResult, error) {
	now := u.clock.Now()
	var res *PayResult

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		in, l, err := lockPair(ctx, r, installmentID)
		if err != nil {
			return err
		}
		if l.Status == loan.StatusClosed {
			return apperr.InvalidState("loan %s is closed", l.LoanID)
		}

		e, err := u.settle(ctx, r, in, now)
		if err != nil {
			return err
		}
		res = &PayResult{Installment: in, Transaction: e}

		if !l.IsActive() {
			return nil
		}
		if next := schedule.NextInterest(l, in); next != nil {
			if err := r.Installments.CreateBatch(ctx, []*installment.Installment{next}); err != nil {
				return err
			}
			res.NewInstallment = next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"installment_id": installmentID,
		"loan_id":        res.Installment.LoanID,
		"amount":         res.Installment.PaidAmount.String(),
		"chained":        res.NewInstallment != nil,
	}).Info("installment paid")
	return res, nil
}

// SettlePrincipal pays the current interest cycle of a DAILY_RATE loan, books
// the principal repayment and closes the loan.
func (u *Usecase) SettlePrincipal(ctx context.Context, installmentID string) (*SettleResult, error) {
	now := u.clock.Now()
	var res *SettleResult

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		in, l, err := lockPair(ctx, r, installmentID)
		if err != nil {
			return err
		}
		if l.Type != loan.TypeDailyRate || in.Kind != installment.KindInterestOnly {
			return apperr.InvalidState("principal settlement needs an INTEREST_ONLY installment of a DAILY_RATE loan")
		}
		if !l.IsActive() {
			return apperr.InvalidState("loan %s is %s", l.LoanID, l.Status)
		}

		interest, err := u.settle(ctx, r, in, now)
		if err != nil {
			return err
		}
		var entries []*ledger.Entry
		if interest != nil {
			entries = append(entries, interest)
		}

		if l.PrincipalAmount.IsPositive() {
			p := newEntry(now, l.PrincipalAmount, ledger.TypeCredit, ledger.CategoryPrincipalSettlement,
				"Principal settled by "+l.ClientName, l.LoanID)
			if err := r.Ledger.Append(ctx, p); err != nil {
				return err
			}
			entries = append(entries, p)
		}

		l.Status = loan.StatusClosed
		l.StatusUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		res = &SettleResult{Installment: in, Transactions: entries, Loan: l}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"installment_id": installmentID,
		"loan_id":        res.Loan.LoanID,
		"principal":      res.Loan.PrincipalAmount.String(),
	}).Info("principal settled, loan closed")
	return res, nil
}

// EditPenalty replaces the penalty of an unpaid installment. No ledger effect.
func (u *Usecase) EditPenalty(ctx context.Context, installmentID string, amount decimal.Decimal) (*installment.Installment, error) {
	if amount.IsNegative() {
		return nil, apperr.Validation("penalty must not be negative")
	}

	var out *installment.Installment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		in, err := r.Installments.GetByInstallmentIDForUpdate(ctx, installmentID)
		if err != nil {
			return apperr.Lookup(err, "installment %s", installmentID)
		}
		if in.IsPaid() {
			return apperr.InvalidState("installment %s is already paid", installmentID)
		}
		in.Penalty = amount.Round(2)
		if err := r.Installments.Transition(ctx, in, installment.Unpaid...); err != nil {
			return stale(err, installmentID)
		}
		out = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Revert undoes a payment: the installment goes back to PENDING, or OVERDUE if
// its due date has passed, and a DEBIT correction offsets what was collected.
// Reverting a DAILY_RATE interest cycle also withdraws the cycle its payment
// chained, provided that one is still unpaid. A principal-settlement closure
// is never reopened.
func (u *Usecase) Revert(ctx context.Context, installmentID string) (*RevertResult, error) {
	now := u.clock.Now()
	var res *RevertResult

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		in, l, err := lockPair(ctx, r, installmentID)
		if err != nil {
			return err
		}
		if !in.IsPaid() {
			return apperr.InvalidState("installment %s is not paid", installmentID)
		}
		res = &RevertResult{Installment: in}

		if l.Type == loan.TypeDailyRate && in.Kind == installment.KindInterestOnly {
			next, err := r.Installments.NextAfter(ctx, l.LoanID, in.DueDate)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
			case err != nil:
				return err
			case next.Kind != installment.KindInterestOnly:
			case next.IsPaid():
				// reopening this cycle beside the unpaid one the successor
				// chained would leave two unpaid interest cycles on the loan
				return apperr.InvalidState("installment %s was followed by paid installment %s, revert that first",
					installmentID, next.InstallmentID)
			default:
				if err := r.Installments.DeleteUnpaid(ctx, next.InstallmentID); err != nil {
					return stale(err, next.InstallmentID)
				}
				res.RemovedInstallment = next
			}
		}

		collected := in.PaidAmount
		in.Status = in.StatusAfterRevert(clock.Date(now))
		in.PaidAmount = decimal.Zero
		in.PaidDate = nil
		if err := r.Installments.Transition(ctx, in, installment.StatusPaid); err != nil {
			return stale(err, installmentID)
		}

		if !collected.IsPositive() {
			return nil
		}
		e := newEntry(now, collected, ledger.TypeDebit, ledger.CategoryCorrection,
			fmt.Sprintf("Reversal of payment from %s (due %s)", in.ClientName, in.DueDate.Format(time.DateOnly)),
			in.InstallmentID)
		if err := r.Ledger.Append(ctx, e); err != nil {
			return err
		}
		res.Transaction = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"installment_id": installmentID,
		"status":         res.Installment.Status,
		"withdrawn":      res.RemovedInstallment != nil,
	}).Info("payment reverted")
	return res, nil
}

func newEntry(at time.Time, amount decimal.Decimal, typ ledger.Type, category, desc, related string) *ledger.Entry {
	return &ledger.Entry{
		EntryID:         id.NewID32(),
		Date:            at,
		Amount:          amount,
		Type:            typ,
		Category:        category,
		Description:     desc,
		RelatedEntityID: &related,
	}
}
