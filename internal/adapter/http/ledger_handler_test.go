package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"debtsify-backend/internal/domain/ledger"
	"debtsify-backend/internal/domain/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransaction(t *testing.T) {
	e := newServer(t, nil)
	related := strings.Repeat("a", 32)

	rec := do(t, e, http.MethodPost, "/transactions", map[string]any{
		"date":              "2025-01-05",
		"amount":            "250.50",
		"type":              "DEBIT",
		"category":          "Rent",
		"description":       "office rent",
		"related_entity_id": related,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeAs[ledger.Entry](t, rec)
	assert.Len(t, got.EntryID, 32)
	assert.Equal(t, ledger.TypeDebit, got.Type)
	requireDec(t, "250.50", got.Amount)
	assert.True(t, got.Date.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)), "date %v", got.Date)
	require.NotNil(t, got.RelatedEntityID)
	assert.Equal(t, related, *got.RelatedEntityID)

	// no date means now
	rec = do(t, e, http.MethodPost, "/transactions", map[string]any{"amount": 1000, "type": "CREDIT", "category": "Capital"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, decodeAs[ledger.Entry](t, rec).Date.Equal(today))
}

func TestRecordTransaction_Validation(t *testing.T) {
	e := newServer(t, nil)

	cases := map[string]map[string]any{
		"zero amount":    {"amount": "0", "type": "CREDIT", "category": "Capital"},
		"three decimals": {"amount": "1.005", "type": "CREDIT", "category": "Capital"},
		"unknown type":   {"amount": "10", "type": "REFUND", "category": "Capital"},
		"no category":    {"amount": "10", "type": "CREDIT"},
		"blank category": {"amount": "10", "type": "CREDIT", "category": "   "},
		"bad date":       {"amount": "10", "type": "CREDIT", "category": "Capital", "date": "5 Jan"},
		"bad related id": {"amount": "10", "type": "CREDIT", "category": "Capital", "related_entity_id": "loan-1"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/transactions", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}
}

func TestListTransactions(t *testing.T) {
	e := newServer(t, nil)
	createLoan(t, e, totalRateBody())
	rec := do(t, e, http.MethodPost, "/transactions", map[string]any{"amount": "75", "type": "DEBIT", "category": "Travel"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[[]ledger.Entry](t, rec), 3)

	rec = do(t, e, http.MethodGet, "/transactions?type=debit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	debits := decodeAs[[]ledger.Entry](t, rec)
	require.Len(t, debits, 2)
	for _, d := range debits {
		assert.Equal(t, ledger.TypeDebit, d.Type)
	}

	rec = do(t, e, http.MethodGet, "/transactions?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[[]ledger.Entry](t, rec), 1)

	for _, q := range []string{"type=REFUND", "limit=abc", "limit=-1"} {
		rec = do(t, e, http.MethodGet, "/transactions?"+q, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}
}

func TestSummary(t *testing.T) {
	e := newServer(t, nil)

	rec := do(t, e, http.MethodGet, "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeAs[summary.Summary](t, rec)
	assert.True(t, empty.MarketAmount.IsZero())
	assert.True(t, empty.CashInHand.IsZero())

	created := createLoan(t, e, totalRateBody())
	rec = do(t, e, http.MethodPost, "/installments/"+created.Installments[0].InstallmentID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, e, http.MethodPost, "/transactions", map[string]any{"amount": "250.50", "type": "DEBIT", "category": "Rent"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodGet, "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeAs[summary.Summary](t, rec)
	// gross exposure, collections are not netted out
	requireDec(t, "12000", got.MarketAmount)
	// -10000 disbursed + 200 fee + 1200 repaid - 250.50 rent
	requireDec(t, "-8850.50", got.CashInHand)
	requireDec(t, "10000", got.TotalDisbursed)
	assert.Equal(t, 1, got.ActiveLoans)
}

func TestSummary_ClosedDailyLoanLeavesMarket(t *testing.T) {
	e := newServer(t, nil)
	created := createLoan(t, e, dailyRateBody())

	rec := do(t, e, http.MethodPost, "/installments/"+created.Installments[0].InstallmentID+"/settle-principal", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeAs[summary.Summary](t, rec)
	assert.True(t, got.MarketAmount.IsZero())
	requireDec(t, "700", got.CashInHand)
	requireDec(t, "100000", got.TotalDisbursed)
	assert.Equal(t, 0, got.ActiveLoans)
}

func TestInvestmentBreakdown(t *testing.T) {
	e := newServer(t, nil)
	created := createLoan(t, e, totalRateBody())
	rec := do(t, e, http.MethodPost, "/installments/"+created.Installments[0].InstallmentID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/investment-breakdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeAs[[]summary.Row](t, rec)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "Asha", r.Person)
	assert.Equal(t, "7d", r.Cycle)
	requireDec(t, "10000", r.Capital)
	requireDec(t, "20", r.InterestPct)
	requireDec(t, "12000", r.TotalRepayable)
	requireDec(t, "1200", r.Received)
	requireDec(t, "10800", r.Remaining)
	requireDec(t, "9000", r.MktPrincipal)
	requireDec(t, "1800", r.MktInterest)
	requireDec(t, "10800", r.TotalMarketValue)
}
