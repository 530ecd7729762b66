package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/shopspring/decimal"
)

// fixedHeads names the chart heads whose accounts bucket as fixed rather
// than current. Every other head is treated as current.
var fixedHeads = map[string]bool{
	"Fixed Assets":                true,
	"Property, Plant & Equipment": true,
	"Land & Building":             true,
	"Plant & Machinery":           true,
	"Furniture & Fixtures":        true,
	"Vehicles":                    true,
	"Long Term Liabilities":       true,
	"Long Term Loans":             true,
}

// currentEarningsLabel is the computed equity line carrying the net of all
// revenue and expense activity through the snapshot date.
const currentEarningsLabel = "Current Earnings"

// GetBalanceSheet walks the chart tree and posted balances as of a date,
// bucketing Asset/Liability/Equity accounts into current and fixed by head
// name. Net Revenue/Expense activity folds into equity as a computed
// Current Earnings line. The accounting identity
// assets = liabilities + equity is verified; a nonzero gap is reported as
// an IntegrityError, never corrected.
func (s *DefaultService) GetBalanceSheet(
	ctx context.Context,
	asOf string,
) (*models.BalanceSheetResponse, error) {
	asOf, err := parseDate(asOf, models.RuleDateFormat)
	if err != nil {
		return nil, err
	}

	charts, err := s.repo.ListCharts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing charts: %w", err)
	}
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	nets, err := s.repo.NetPostedThrough(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("error computing balances: %w", err)
	}

	chartByID := make(map[int64]models.Chart, len(charts))
	for _, chart := range charts {
		chartByID[chart.ID] = chart
	}

	type bucketKey struct {
		chartType models.ChartType
		fixed     bool
		head      string
	}
	buckets := make(map[bucketKey][]models.BalanceSheetLine)
	earnings := decimal.Zero

	for _, account := range accounts {
		chart, ok := chartByID[account.ChartID]
		if !ok {
			continue
		}

		raw := account.OpeningBalance.Add(nets[account.ID])

		if !chart.Type.OnBalanceSheet() {
			// Revenue/Expense: fold the credit-normal net into equity.
			earnings = earnings.Sub(raw)
			continue
		}

		amount := raw
		if chart.Type.NormalSide() == models.SideCredit {
			amount = raw.Neg()
		}

		key := bucketKey{
			chartType: chart.Type,
			fixed:     isFixedHead(chart, chartByID),
			head:      chart.Name,
		}
		buckets[key] = append(buckets[key], models.BalanceSheetLine{
			AccountID:   account.ID,
			AccountName: account.Name,
			Amount:      amount,
		})
	}

	sheet := &models.BalanceSheet{AsOf: asOf}
	sections := map[models.ChartType]*models.BalanceSheetSection{
		models.TypeAsset:     &sheet.Assets,
		models.TypeLiability: &sheet.Liabilities,
		models.TypeEquity:    &sheet.Equity,
	}

	keys := make([]bucketKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].chartType != keys[j].chartType {
			return keys[i].chartType < keys[j].chartType
		}
		if keys[i].fixed != keys[j].fixed {
			return !keys[i].fixed
		}
		return keys[i].head < keys[j].head
	})

	for _, key := range keys {
		lines := buckets[key]
		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.Amount)
		}

		head := models.BalanceSheetHead{Head: key.head, Lines: lines, Total: total}
		section := sections[key.chartType]
		if key.fixed {
			section.Fixed = append(section.Fixed, head)
			section.FixedTotal = section.FixedTotal.Add(total)
		} else {
			section.Current = append(section.Current, head)
			section.CurrentTotal = section.CurrentTotal.Add(total)
		}
	}

	if !earnings.IsZero() {
		sheet.Equity.Current = append(sheet.Equity.Current, models.BalanceSheetHead{
			Head: currentEarningsLabel,
			Lines: []models.BalanceSheetLine{
				{AccountName: currentEarningsLabel, Amount: earnings},
			},
			Total: earnings,
		})
		sheet.Equity.CurrentTotal = sheet.Equity.CurrentTotal.Add(earnings)
	}

	for _, section := range sections {
		section.Total = section.CurrentTotal.Add(section.FixedTotal)
	}

	diff := sheet.Assets.Total.Sub(sheet.Liabilities.Total.Add(sheet.Equity.Total))
	tolerance := decimal.New(5, -(models.AmountScale + 1)) // half of the last kept digit
	if diff.Abs().GreaterThan(tolerance) {
		return nil, &models.IntegrityError{
			Message:    fmt.Sprintf("assets != liabilities + equity as of %s", asOf),
			Difference: diff,
		}
	}

	return &models.BalanceSheetResponse{Status: "success", BalanceSheet: sheet}, nil
}

// isFixedHead classifies a chart node by its own name or, for a sub-head,
// by its parent head's name.
func isFixedHead(chart models.Chart, chartByID map[int64]models.Chart) bool {
	if fixedHeads[chart.Name] {
		return true
	}
	if chart.ParentID != nil {
		if parent, ok := chartByID[*chart.ParentID]; ok {
			return fixedHeads[parent.Name]
		}
	}
	return false
}
