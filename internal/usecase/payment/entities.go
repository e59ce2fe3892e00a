package payment

import (
	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"
)

type PayResult struct {
	Installment *installment.Installment `json:"installment"`
	// nil when the amount due was zero
	Transaction *ledger.Entry `json:"transaction,omitempty"`
	// the chained DAILY_RATE cycle, if one was generated
	NewInstallment *installment.Installment `json:"new_installment,omitempty"`
}

type SettleResult struct {
	Installment  *installment.Installment `json:"installment"`
	Transactions []*ledger.Entry          `json:"transactions"`
	Loan         *loan.Loan               `json:"loan"`
}

type RevertResult struct {
	Installment *installment.Installment `json:"installment"`
	// nil when nothing had been collected
	Transaction *ledger.Entry `json:"transaction,omitempty"`
	// the chained cycle withdrawn together with the payment that created it
	RemovedInstallment *installment.Installment `json:"removed_installment,omitempty"`
}
