package models

import "github.com/shopspring/decimal"

// Request models
type CreateChartRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

type CreateAccountRequest struct {
	ChartID        int64           `json:"chartId" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Code           string          `json:"code"`
	Address        string          `json:"address"`
	Contact        string          `json:"contact"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

type BulkCreateAccountsRequest struct {
	Accounts []CreateAccountRequest `json:"accounts" binding:"required,min=1,dive"`
}

type JournalEntryDraft struct {
	AccountID int64           `json:"accountId" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type PostJournalRequest struct {
	Date      string              `json:"date" binding:"required"`
	Narration string              `json:"narration"`
	Entries   []JournalEntryDraft `json:"entries" binding:"required"`
}

// Response models
type ChartResponse struct {
	Status string `json:"status"`
	Chart  *Chart `json:"chart,omitempty"`
}

type AccountResponse struct {
	Status  string   `json:"status"`
	Account *Account `json:"account,omitempty"`
}

type BulkCreateAccountsResponse struct {
	Status   string    `json:"status"`
	Inserted int       `json:"inserted"`
	Accounts []Account `json:"accounts"`
}

// ChartWithAccounts is one head with its sub-heads and bound accounts.
type ChartWithAccounts struct {
	Chart
	Accounts []Account           `json:"accounts"`
	SubHeads []ChartWithAccounts `json:"subHeads,omitempty"`
}

type ListChartsResponse struct {
	Status string              `json:"status"`
	Charts []ChartWithAccounts `json:"charts"`
}

type PostJournalResponse struct {
	Status    string   `json:"status"`
	Journal   *Journal `json:"journal,omitempty"`
	PostedAt  string   `json:"postedAt,omitempty"`
	EntryRows int      `json:"entryRows,omitempty"`
}

type LedgerResponse struct {
	Status      string          `json:"status"`
	AccountID   int64           `json:"accountId"`
	AccountName string          `json:"accountName"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Rows        []LedgerRow     `json:"rows"`
	Closing     decimal.Decimal `json:"closingBalance"`
	ClosingType BalanceSide     `json:"closingBalanceType"`
}

type BalanceSheetResponse struct {
	Status       string        `json:"status"`
	BalanceSheet *BalanceSheet `json:"balanceSheet,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
