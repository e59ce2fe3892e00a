package uow

import (
	"context"

	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"
)

// Repos are bound to one transaction for the lifetime of the callback.
type Repos struct {
	Loans        loan.Repository
	Installments installment.Repository
	Ledger       ledger.Repository
}

type UnitOfWork interface {
	// plain tx; any error returned by fn rolls everything back
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
