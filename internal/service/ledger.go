package service

import (
	"context"
	"fmt"

	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/shopspring/decimal"
)

// GetLedger projects an account's ledger over a date range: every posted
// entry touching the account ordered by date then insertion order, with a
// running balance seeded from the account's opening balance plus all posted
// activity before the range. Draft journals never appear. Inactive accounts
// remain queryable for their history.
func (s *DefaultService) GetLedger(
	ctx context.Context,
	accountID int64,
	from string,
	to string,
) (*models.LedgerResponse, error) {
	if from != "" {
		normalized, err := parseDate(from, models.RuleDateFormat)
		if err != nil {
			return nil, err
		}
		from = normalized
	}
	if to != "" {
		normalized, err := parseDate(to, models.RuleDateFormat)
		if err != nil {
			return nil, err
		}
		to = normalized
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return nil, &models.NotFoundError{Kind: "account", ID: fmt.Sprint(accountID)}
	}

	chart, err := s.repo.GetChart(ctx, account.ChartID)
	if err != nil {
		return nil, fmt.Errorf("error getting chart: %w", err)
	}
	if chart == nil {
		return nil, &models.NotFoundError{Kind: "chart", ID: fmt.Sprint(account.ChartID)}
	}
	normal := chart.Type.NormalSide()

	// Seed: opening balance plus everything posted before the range start.
	balance := account.OpeningBalance
	if from != "" {
		debit, credit, err := s.repo.SumPostedBefore(ctx, accountID, from)
		if err != nil {
			return nil, fmt.Errorf("error seeding opening balance: %w", err)
		}
		balance = balance.Add(debit).Sub(credit)
	}

	entries, err := s.repo.ListPostedEntries(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	rows := make([]models.LedgerRow, 0, len(entries))
	for _, entry := range entries {
		balance = balance.Add(entry.Debit).Sub(entry.Credit)

		particulars := entry.Narration
		if entry.LinkedName != nil {
			particulars = *entry.LinkedName
		}

		amount, side := sidedBalance(balance, normal)
		rows = append(rows, models.LedgerRow{
			Date:        entry.Date,
			JournalID:   entry.JournalID,
			Particulars: particulars,
			Debit:       entry.Debit,
			Credit:      entry.Credit,
			Balance:     amount,
			BalanceType: side,
		})
	}

	closing, closingSide := sidedBalance(balance, normal)

	return &models.LedgerResponse{
		Status:      "success",
		AccountID:   account.ID,
		AccountName: account.Name,
		From:        from,
		To:          to,
		Rows:        rows,
		Closing:     closing,
		ClosingType: closingSide,
	}, nil
}

// sidedBalance turns a raw debit-minus-credit balance into a non-negative
// magnitude plus its Dr/Cr side. Debit-normal accounts read a positive raw
// balance as Dr; credit-normal accounts invert the comparison.
func sidedBalance(raw decimal.Decimal, normal models.BalanceSide) (decimal.Decimal, models.BalanceSide) {
	display := raw
	if normal == models.SideCredit {
		display = raw.Neg()
	}
	if display.IsNegative() {
		return display.Neg(), opposite(normal)
	}
	return display, normal
}

func opposite(side models.BalanceSide) models.BalanceSide {
	if side == models.SideDebit {
		return models.SideCredit
	}
	return models.SideDebit
}
