package service_test

import (
	"context"
	"testing"

	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceSheetBucketsAndIdentity(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	current := env.mustCreateChart(t, "Current Assets", models.TypeAsset)
	fixed := env.mustCreateChart(t, "Fixed Assets", models.TypeAsset)
	liabilities := env.mustCreateChart(t, "Current Liabilities", models.TypeLiability)
	equity := env.mustCreateChart(t, "Capital", models.TypeEquity)
	revenue := env.mustCreateChart(t, "Sales", models.TypeRevenue)

	cash := env.mustCreateAccount(t, current.ID, "Cash")
	machinery := env.mustCreateAccount(t, fixed.ID, "Machinery")
	payable := env.mustCreateAccount(t, liabilities.ID, "Accounts Payable")
	capital := env.mustCreateAccount(t, equity.ID, "Owner Capital")
	sales := env.mustCreateAccount(t, revenue.ID, "Product Sales")

	post := func(date string, debitID, creditID int64, amount string) {
		t.Helper()
		_, err := env.svc.PostJournal(ctx, models.PostJournalRequest{
			Date: date,
			Entries: []models.JournalEntryDraft{
				{AccountID: debitID, Debit: dec(amount)},
				{AccountID: creditID, Credit: dec(amount)},
			},
		})
		require.NoError(t, err)
	}

	post("2024-01-01", cash.ID, capital.ID, "1000.00")   // capital injection
	post("2024-01-05", machinery.ID, payable.ID, "400.00") // machine on credit
	post("2024-01-10", cash.ID, sales.ID, "200.00")      // cash sale

	resp, err := env.svc.GetBalanceSheet(ctx, "2024-01-31")
	require.NoError(t, err)
	sheet := resp.BalanceSheet

	// Assets: Cash 1200 current, Machinery 400 fixed.
	assert.Equal(t, "1200.00", sheet.Assets.CurrentTotal.StringFixed(2))
	assert.Equal(t, "400.00", sheet.Assets.FixedTotal.StringFixed(2))
	assert.Equal(t, "1600.00", sheet.Assets.Total.StringFixed(2))
	require.Len(t, sheet.Assets.Current, 1)
	assert.Equal(t, "Current Assets", sheet.Assets.Current[0].Head)
	require.Len(t, sheet.Assets.Fixed, 1)
	assert.Equal(t, "Fixed Assets", sheet.Assets.Fixed[0].Head)
	assert.Equal(t, "Machinery", sheet.Assets.Fixed[0].Lines[0].AccountName)

	// Liabilities: payable 400.
	assert.Equal(t, "400.00", sheet.Liabilities.Total.StringFixed(2))

	// Equity: capital 1000 plus the folded revenue activity 200.
	assert.Equal(t, "1200.00", sheet.Equity.Total.StringFixed(2))
	var foundEarnings bool
	for _, head := range sheet.Equity.Current {
		if head.Head == "Current Earnings" {
			foundEarnings = true
			assert.Equal(t, "200.00", head.Total.StringFixed(2))
		}
	}
	assert.True(t, foundEarnings, "expected a Current Earnings line in equity")

	// The accounting identity holds.
	assert.Equal(t,
		sheet.Assets.Total.StringFixed(2),
		sheet.Liabilities.Total.Add(sheet.Equity.Total).StringFixed(2))

	// Revenue accounts never appear as balance-sheet lines.
	for _, section := range []models.BalanceSheetSection{sheet.Assets, sheet.Liabilities, sheet.Equity} {
		for _, head := range append(section.Current, section.Fixed...) {
			for _, line := range head.Lines {
				assert.NotEqual(t, "Product Sales", line.AccountName)
			}
		}
	}
}

func TestBalanceSheetAsOfDateCutoff(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	assets := env.mustCreateChart(t, "Current Assets", models.TypeAsset)
	equity := env.mustCreateChart(t, "Capital", models.TypeEquity)
	cash := env.mustCreateAccount(t, assets.ID, "Cash")
	capital := env.mustCreateAccount(t, equity.ID, "Owner Capital")

	for _, p := range []struct{ date, amount string }{
		{"2024-01-01", "100.00"},
		{"2024-02-01", "50.00"},
	} {
		_, err := env.svc.PostJournal(ctx, models.PostJournalRequest{
			Date: p.date,
			Entries: []models.JournalEntryDraft{
				{AccountID: cash.ID, Debit: dec(p.amount)},
				{AccountID: capital.ID, Credit: dec(p.amount)},
			},
		})
		require.NoError(t, err)
	}

	resp, err := env.svc.GetBalanceSheet(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "100.00", resp.BalanceSheet.Assets.Total.StringFixed(2))

	resp, err = env.svc.GetBalanceSheet(ctx, "2024-02-15")
	require.NoError(t, err)
	assert.Equal(t, "150.00", resp.BalanceSheet.Assets.Total.StringFixed(2))
}

func TestBalanceSheetIntegrityError(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	assets := env.mustCreateChart(t, "Current Assets", models.TypeAsset)

	// An opening balance with no matching equity side breaks the identity.
	_, err := env.svc.CreateAccount(ctx, models.CreateAccountRequest{
		ChartID:        assets.ID,
		Name:           "Cash",
		OpeningBalance: dec("100.00"),
	})
	require.NoError(t, err)

	_, err = env.svc.GetBalanceSheet(ctx, "2024-12-31")
	var integrityErr *models.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "100.00", integrityErr.Difference.StringFixed(2))
}

func TestBalanceSheetRejectsBadDate(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.GetBalanceSheet(context.Background(), "31-12-2024")
	assertValidation(t, err, models.RuleDateFormat)
}
