// Package summary computes ledger and exposure figures from a full snapshot of
// loans, installments and ledger entries. Every function is pure: same input,
// same output, no I/O.
package summary

import (
	"fmt"
	"sort"
	"time"

	"debtsify-backend/internal/domain/installment"
	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type Summary struct {
	// Gross exposure of ACTIVE loans: principal × multiplier for TOTAL_RATE,
	// principal for DAILY_RATE. Collections are not netted out.
	MarketAmount decimal.Decimal `json:"market_amount"`
	// Σ credits − Σ debits over every ledger entry.
	CashInHand decimal.Decimal `json:"cash_in_hand"`
	// Σ principal over all loans ever created, whatever their status.
	TotalDisbursed decimal.Decimal `json:"total_disbursed"`
	ActiveLoans    int             `json:"active_loans"`
}

func Compute(loans []*loan.Loan, _ []*installment.Installment, entries []*ledger.Entry) Summary {
	s := Summary{
		MarketAmount:   decimal.Zero,
		CashInHand:     decimal.Zero,
		TotalDisbursed: decimal.Zero,
	}
	for _, e := range entries {
		s.CashInHand = s.CashInHand.Add(e.Signed())
	}
	for _, l := range loans {
		s.TotalDisbursed = s.TotalDisbursed.Add(l.PrincipalAmount)
		if l.IsActive() {
			s.ActiveLoans++
			s.MarketAmount = s.MarketAmount.Add(l.TotalRepayable())
		}
	}
	return s
}

// Row is the per-loan investment report line.
type Row struct {
	LoanID           string          `json:"loan_id"`
	Person           string          `json:"person"`
	Type             loan.Type       `json:"type"`
	Status           loan.Status     `json:"status"`
	StartDate        time.Time       `json:"start_date"`
	Cycle            string          `json:"cycle"`
	Capital          decimal.Decimal `json:"capital"`
	InterestPct      decimal.Decimal `json:"interest_percentage"`
	TotalRepayable   decimal.Decimal `json:"total_repayable"`
	Received         decimal.Decimal `json:"received"`
	Remaining        decimal.Decimal `json:"remaining"`
	MktPrincipal     decimal.Decimal `json:"mkt_principal"`
	MktInterest      decimal.Decimal `json:"mkt_interest"`
	TotalMarketValue decimal.Decimal `json:"total_market_value"`
}

var hundred = decimal.NewFromInt(100)

// Breakdown returns one row per loan, newest start date first.
//
// TOTAL_RATE: remaining = max(0, total_repayable − received), split into
// principal and interest in the ratio principal : total_repayable.
// DAILY_RATE: interest payments never reduce principal, so remaining is the
// principal until the loan is closed; market interest is what is still unpaid
// on its interest installments.
func Breakdown(loans []*loan.Loan, installments []*installment.Installment) []Row {
	byLoan := make(map[string][]*installment.Installment, len(loans))
	for _, in := range installments {
		byLoan[in.LoanID] = append(byLoan[in.LoanID], in)
	}

	rows := make([]Row, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, row(l, byLoan[l.LoanID]))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.After(rows[j].StartDate)
		}
		return rows[i].LoanID < rows[j].LoanID
	})
	return rows
}

// row prices one loan. TOTAL_RATE remaining is max(0, repayable − received),
// split by principal : repayable. DAILY_RATE remaining is the principal until
// it is settled, and its market interest is the unpaid interest cycles.
func row(l *loan.Loan, items []*installment.Installment) Row {
	r := Row{
		LoanID:         l.LoanID,
		Person:         l.ClientName,
		Type:           l.Type,
		Status:         l.Status,
		StartDate:      l.StartDate,
		Cycle:          fmt.Sprintf("%dd", l.IntervalDays),
		Capital:        l.PrincipalAmount,
		TotalRepayable: l.TotalRepayable(),
		Received:       decimal.Zero,
		Remaining:      decimal.Zero,
		MktPrincipal:   decimal.Zero,
		MktInterest:    decimal.Zero,
	}
	for _, in := range items {
		r.Received = r.Received.Add(in.PaidAmount)
	}

	switch l.Type {
	case loan.TypeTotalRate:
		r.InterestPct = l.Multiplier.Sub(decimal.NewFromInt(1)).Mul(hundred)
		if l.Status != loan.StatusClosed {
			r.Remaining = decimal.Max(decimal.Zero, r.TotalRepayable.Sub(r.Received))
		}
		if r.TotalRepayable.IsPositive() {
			r.MktPrincipal = r.Remaining.Mul(l.PrincipalAmount).Div(r.TotalRepayable).Round(2)
		}
		r.MktInterest = r.Remaining.Sub(r.MktPrincipal)
	case loan.TypeDailyRate:
		r.InterestPct = l.DailyRate
		if l.Status != loan.StatusClosed {
			r.Remaining = l.PrincipalAmount
		}
		r.MktPrincipal = r.Remaining
		for _, in := range items {
			if !in.IsPaid() {
				r.MktInterest = r.MktInterest.Add(in.ExpectedAmount.Sub(in.PaidAmount))
			}
		}
	}
	r.TotalMarketValue = r.MktPrincipal.Add(r.MktInterest)
	return r
}
