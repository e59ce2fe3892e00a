package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"debtsify-backend/internal/domain/apperr"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"
	"debtsify-backend/internal/domain/schedule"
	"debtsify-backend/internal/domain/uow"
	"debtsify-backend/pkg/clock"
	"debtsify-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Usecase struct {
	loans loan.Repository
	uow   uow.UnitOfWork
	clock clock.Clock
	log   logrus.FieldLogger
}

// NewUsecase: reads go through loans, every write through the unit of work.
func NewUsecase(loans loan.Repository, tx uow.UnitOfWork, c clock.Clock, log logrus.FieldLogger) *Usecase {
	return &Usecase{loans: loans, uow: tx, clock: c, log: log}
}

// Create registers a loan together with its initial schedule and the cash
// movements of disbursement, all in one transaction.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*CreateLoanResult, error) {
	interval := in.IntervalDays
	if interval == 0 && in.Frequency != "" {
		n, ok := loan.IntervalForFrequency(in.Frequency)
		if !ok {
			return nil, apperr.Validation("unknown frequency %q", in.Frequency)
		}
		interval = n
	}

	if in.DurationDays > loan.MaxTermDays {
		return nil, apperr.Validation("duration_days must be at most %d", loan.MaxTermDays)
	}

	now := u.clock.Now()
	l := &loan.Loan{
		LoanID:           id.NewID32(),
		ClientName:       strings.TrimSpace(in.ClientName),
		Type:             in.Type,
		PrincipalAmount:  in.PrincipalAmount.Round(2),
		StartDate:        clock.Date(in.StartDate),
		IntervalDays:     interval,
		ProcessingFeePct: in.ProcessingFeePct.Round(2),
		PayoutPct:        in.PayoutPct.Round(2),
		Status:           loan.StatusActive,
		StatusUpdatedAt:  now,
	}
	switch in.Type {
	case loan.TypeTotalRate:
		// rounded to the stored scale so every later read prices the same terms
		l.Multiplier = in.Multiplier.Round(loan.TermScale)
		l.InstallmentCount = in.InstallmentCount
		if l.InstallmentCount == 0 && in.DurationDays > 0 {
			l.InstallmentCount = loan.CountForDuration(in.DurationDays, interval)
		}
	case loan.TypeDailyRate:
		l.DailyRate = in.DailyRate.Round(loan.TermScale)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	items := schedule.Initial(l)
	entries := creationEntries(l, now)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Installments.CreateBatch(ctx, items); err != nil {
			return err
		}
		return r.Ledger.Append(ctx, entries...)
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":      l.LoanID,
		"type":         l.Type,
		"principal":    l.PrincipalAmount.String(),
		"installments": len(items),
	}).Info("loan created")
	return &CreateLoanResult{Loan: l, Installments: items, Transactions: entries}, nil
}

// creationEntries: the disbursement always, payout and processing fee only
// when they come to a positive amount.
func creationEntries(l *loan.Loan, now time.Time) []*ledger.Entry {
	entries := []*ledger.Entry{
		newEntry(l, now, l.PrincipalAmount, ledger.TypeDebit, ledger.CategoryDisbursement, "Disbursed to "+l.ClientName),
	}
	if payout := l.FeeAmount(l.PayoutPct); payout.IsPositive() {
		entries = append(entries, newEntry(l, now, payout, ledger.TypeDebit, ledger.CategoryPayout,
			fmt.Sprintf("Payout %s%% on loan to %s", l.PayoutPct.String(), l.ClientName)))
	}
	if fee := l.FeeAmount(l.ProcessingFeePct); fee.IsPositive() {
		entries = append(entries, newEntry(l, now, fee, ledger.TypeCredit, ledger.CategoryProcessingFee,
			fmt.Sprintf("Processing fee %s%% from %s", l.ProcessingFeePct.String(), l.ClientName)))
	}
	return entries
}

func newEntry(l *loan.Loan, at time.Time, amount decimal.Decimal, typ ledger.Type, category, desc string) *ledger.Entry {
	related := l.LoanID
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

func (u *Usecase) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, apperr.Lookup(err, "loan %s", loanID)
	}
	return l, nil
}

func (u *Usecase) List(ctx context.Context, f loan.Filter) ([]*loan.Loan, error) {
	return u.loans.List(ctx, f)
}

// Rename changes the display name on the loan and on every installment it owns.
// Financial terms have no setter.
func (u *Usecase) Rename(ctx context.Context, loanID, clientName string) (*loan.Loan, error) {
	name := strings.TrimSpace(clientName)
	if name == "" {
		return nil, apperr.Validation("client_name is required")
	}

	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		l.ClientName = name
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Installments.RenameClient(ctx, l.LoanID, name); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, apperr.Lookup(err, "loan %s", loanID)
	}
	return out, nil
}

// WriteOff marks an ACTIVE loan as bad debt. It stays out of the market amount
// from then on; its installments remain payable.
func (u *Usecase) WriteOff(ctx context.Context, loanID string) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.IsActive() {
			return apperr.InvalidState("loan %s is %s, only ACTIVE loans can be written off", l.LoanID, l.Status)
		}
		l.Status = loan.StatusBadDebt
		l.StatusUpdatedAt = u.clock.Now()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, apperr.Lookup(err, "loan %s", loanID)
	}
	u.log.WithField("loan_id", loanID).Warn("loan written off")
	return out, nil
}
