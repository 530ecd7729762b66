package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ledgercore/accounting-server/internal/api/testutils"
	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createChart(t *testing.T, testCtx *testutils.TestContext, name, chartType string) models.Chart {
	t.Helper()

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/charts",
		models.CreateChartRequest{Name: name, Type: chartType})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.ChartResponse
	testutils.DecodeResponse(t, w, &resp)
	require.NotNil(t, resp.Chart)
	return *resp.Chart
}

func createAccount(t *testing.T, testCtx *testutils.TestContext, chartID int64, name string) models.Account {
	t.Helper()

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/accounts",
		models.CreateAccountRequest{ChartID: chartID, Name: name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.AccountResponse
	testutils.DecodeResponse(t, w, &resp)
	require.NotNil(t, resp.Account)
	return *resp.Account
}

func TestCreateAndGetAccount(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	chart := createChart(t, testCtx, "Current Assets", "Asset")
	account := createAccount(t, testCtx, chart.ID, "Cash")
	assert.True(t, account.IsActive)

	// Test case 1: Fetch the created account
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AccountResponse
	testutils.DecodeResponse(t, w, &resp)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Cash", resp.Account.Name)

	// Test case 2: Unknown account id
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/accounts/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeResponse(t, w, &errResp)
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	// Test case 3: Non-numeric id
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/accounts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAccountValidation(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	chart := createChart(t, testCtx, "Current Assets", "Asset")
	createAccount(t, testCtx, chart.ID, "Cash")

	// Test case 1: Duplicate (chartId, name, code)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/accounts",
		models.CreateAccountRequest{ChartID: chart.ID, Name: "Cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeResponse(t, w, &errResp)
	assert.Equal(t, "VALIDATION_FAILED", errResp.Code)

	// Test case 2: Unknown chart
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/accounts",
		models.CreateAccountRequest{ChartID: 999, Name: "Orphan"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 3: Missing required fields
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/accounts",
		map[string]interface{}{"name": "No Chart"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkCreateAccounts(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	chart := createChart(t, testCtx, "Current Assets", "Asset")

	// Test case 1: Clean batch
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/accounts/bulk",
		models.BulkCreateAccountsRequest{Accounts: []models.CreateAccountRequest{
			{ChartID: chart.ID, Name: "Cash"},
			{ChartID: chart.ID, Name: "Bank", Code: "BK-01"},
		}})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.BulkCreateAccountsResponse
	testutils.DecodeResponse(t, w, &resp)
	assert.Equal(t, 2, resp.Inserted)

	// Test case 2: Batch with an invalid row is rejected whole
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/accounts/bulk",
		models.BulkCreateAccountsRequest{Accounts: []models.CreateAccountRequest{
			{ChartID: chart.ID, Name: "Petty Cash"},
			{ChartID: chart.ID, Name: "Cash"}, // duplicate
		}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int
	require.NoError(t, testCtx.DB.Get(&count,
		`SELECT COUNT(*) FROM account WHERE name = 'Petty Cash'`))
	assert.Equal(t, 0, count)
}

func TestListChartsWithAccounts(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	chart := createChart(t, testCtx, "Current Assets", "Asset")
	createAccount(t, testCtx, chart.ID, "Cash")

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/charts", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ListChartsResponse
	testutils.DecodeResponse(t, w, &resp)
	require.Len(t, resp.Charts, 1)
	assert.Equal(t, "Current Assets", resp.Charts[0].Name)
	require.Len(t, resp.Charts[0].Accounts, 1)
	assert.Equal(t, "Cash", resp.Charts[0].Accounts[0].Name)
}
