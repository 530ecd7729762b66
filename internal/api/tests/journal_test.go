package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ledgercore/accounting-server/internal/api/testutils"
	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJournalAndGetLedger(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	assets := createChart(t, testCtx, "Current Assets", "Asset")
	liabilities := createChart(t, testCtx, "Current Liabilities", "Liability")
	cash := createAccount(t, testCtx, assets.ID, "Cash")
	payable := createAccount(t, testCtx, liabilities.ID, "Accounts Payable")

	// Test case 1: Successful posting
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/journals",
		models.PostJournalRequest{
			Date:      "2024-03-05",
			Narration: "supplier invoice",
			Entries: []models.JournalEntryDraft{
				{AccountID: cash.ID, Debit: decimal.RequireFromString("500.00")},
				{AccountID: payable.ID, Credit: decimal.RequireFromString("500.00")},
			},
		})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var postResp models.PostJournalResponse
	testutils.DecodeResponse(t, w, &postResp)
	assert.Equal(t, "success", postResp.Status)
	require.NotNil(t, postResp.Journal)
	assert.True(t, postResp.Journal.IsPosted)
	assert.Equal(t, 2, postResp.EntryRows)

	// Test case 2: The posted entries project immediately
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/accounts/%d/ledger?from=2024-03-05&to=2024-03-05", cash.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ledgerResp models.LedgerResponse
	testutils.DecodeResponse(t, w, &ledgerResp)
	require.Len(t, ledgerResp.Rows, 1)
	assert.Equal(t, "500", ledgerResp.Rows[0].Debit.String())
	assert.Equal(t, models.SideDebit, ledgerResp.Rows[0].BalanceType)
	assert.Equal(t, "Accounts Payable", ledgerResp.Rows[0].Particulars)

	// Test case 3: Ledger for an unknown account
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/accounts/9999/ledger", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostJournalRejectsImbalance(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	assets := createChart(t, testCtx, "Current Assets", "Asset")
	a := createAccount(t, testCtx, assets.ID, "Account A")
	b := createAccount(t, testCtx, assets.ID, "Account B")

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/journals",
		models.PostJournalRequest{
			Date: "2024-03-05",
			Entries: []models.JournalEntryDraft{
				{AccountID: a.ID, Debit: decimal.RequireFromString("100.00")},
				{AccountID: b.ID, Credit: decimal.RequireFromString("99.00")},
			},
		})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeResponse(t, w, &errResp)
	assert.Equal(t, "VALIDATION_FAILED", errResp.Code)
	assert.Contains(t, errResp.Message, "debits")

	// Nothing was written
	var count int
	require.NoError(t, testCtx.DB.Get(&count, `SELECT COUNT(*) FROM journal`))
	assert.Equal(t, 0, count)

	// Test case 2: Malformed request body
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/journals",
		map[string]interface{}{"narration": "no date, no entries"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	testutils.DecodeResponse(t, w, &errResp)
	assert.Equal(t, "INVALID_REQUEST", errResp.Code)
}
