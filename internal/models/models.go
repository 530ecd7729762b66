package models

import (
	"github.com/shopspring/decimal"
)

// AmountScale is the fixed number of fractional digits carried by every
// monetary amount in the system.
const AmountScale = 2

// BalanceSide indicates which side of the ledger a balance sits on.
type BalanceSide string

const (
	SideDebit  BalanceSide = "Dr"
	SideCredit BalanceSide = "Cr"
)

// ChartType classifies a top-level chart head.
type ChartType string

const (
	TypeAsset     ChartType = "Asset"
	TypeLiability ChartType = "Liability"
	TypeEquity    ChartType = "Equity"
	TypeRevenue   ChartType = "Revenue"
	TypeExpense   ChartType = "Expense"
)

// Valid reports whether t is one of the known chart types.
func (t ChartType) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// NormalSide returns the side a positive balance of this chart type sits on.
// Asset and Expense accounts are debit-normal; Liability, Equity and Revenue
// accounts are credit-normal.
func (t ChartType) NormalSide() BalanceSide {
	if t == TypeAsset || t == TypeExpense {
		return SideDebit
	}
	return SideCredit
}

// OnBalanceSheet reports whether accounts of this type appear on the balance
// sheet. Revenue and Expense feed the income statement instead.
func (t ChartType) OnBalanceSheet() bool {
	return t == TypeAsset || t == TypeLiability || t == TypeEquity
}

// Chart represents a node in the chart-of-accounts tree. A node with a nil
// ParentID is a main head; a node referencing a head is a custom sub-head.
// Nesting is at most one level deep.
type Chart struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      ChartType `db:"type" json:"type"`
	ParentID  *int64    `db:"parent_id" json:"parentId,omitempty"`
	CreatedAt string    `db:"created_at" json:"createdAt"`
	UpdatedAt string    `db:"updated_at" json:"updatedAt"`
}

// Account is a ledger-bearing leaf bound to exactly one chart node. An
// inactive account is rejected as a posting target but keeps its history.
type Account struct {
	ID             int64           `db:"id" json:"id"`
	ChartID        int64           `db:"chart_id" json:"chartId"`
	Name           string          `db:"name" json:"name"`
	Code           string          `db:"code" json:"code,omitempty"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	Address        string          `db:"address" json:"address,omitempty"`
	Contact        string          `db:"contact" json:"contact,omitempty"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"openingBalance"`
	CreatedAt      string          `db:"created_at" json:"createdAt"`
	UpdatedAt      string          `db:"updated_at" json:"updatedAt"`
}

// Journal is the atomic double-entry transaction. A journal with
// IsPosted=false is a draft and is invisible to every balance computation.
// Posted journals are immutable; corrections are made by posting a
// reversing journal.
type Journal struct {
	ID        string `db:"id" json:"id"`
	Date      string `db:"date" json:"date"`
	Narration string `db:"narration" json:"narration"`
	IsPosted  bool   `db:"is_posted" json:"isPosted"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`

	Entries []JournalEntry `db:"-" json:"entries,omitempty"`
}

// JournalEntry is one debit or credit leg of a journal. Exactly one of
// DebitAmount/CreditAmount is nonzero. LinkedAccountID points at the contra
// leg's account when the journal has exactly two legs.
type JournalEntry struct {
	ID              int64           `db:"id" json:"id"`
	JournalID       string          `db:"journal_id" json:"journalId"`
	AccountID       int64           `db:"account_id" json:"accountId"`
	LinkedAccountID *int64          `db:"linked_account_id" json:"linkedAccountId,omitempty"`
	DebitAmount     decimal.Decimal `db:"debit_amount" json:"debitAmount"`
	CreditAmount    decimal.Decimal `db:"credit_amount" json:"creditAmount"`
	CreatedAt       string          `db:"created_at" json:"createdAt"`
	UpdatedAt       string          `db:"updated_at" json:"updatedAt"`
}

// PostedEntry is one stored journal leg joined with its journal and the
// linked contra account's name, in the shape the ledger projector consumes.
type PostedEntry struct {
	EntryID    int64           `db:"entry_id"`
	JournalID  string          `db:"journal_id"`
	Date       string          `db:"date"`
	Narration  string          `db:"narration"`
	LinkedName *string         `db:"linked_name"`
	Debit      decimal.Decimal `db:"debit_amount"`
	Credit     decimal.Decimal `db:"credit_amount"`
}

// LedgerRow is one materialized line of an account's ledger. It is derived
// on demand and never persisted.
type LedgerRow struct {
	Date        string          `json:"date"`
	JournalID   string          `json:"journalId"`
	Particulars string          `json:"particulars"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	BalanceType BalanceSide     `json:"balanceType"`
}

// BalanceSheetLine is one account leaf on the balance sheet, stated on the
// owning chart type's normal side.
type BalanceSheetLine struct {
	AccountID   int64           `json:"accountId"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheetHead groups the lines under one chart head.
type BalanceSheetHead struct {
	Head  string             `json:"head"`
	Lines []BalanceSheetLine `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// BalanceSheetSection holds one of the assets/liabilities/equity sections,
// split into current and fixed buckets.
type BalanceSheetSection struct {
	Current      []BalanceSheetHead `json:"current"`
	Fixed        []BalanceSheetHead `json:"fixed"`
	CurrentTotal decimal.Decimal    `json:"currentTotal"`
	FixedTotal   decimal.Decimal    `json:"fixedTotal"`
	Total        decimal.Decimal    `json:"total"`
}

// BalanceSheet is a derived snapshot as of a given date. The accounting
// identity Assets.Total == Liabilities.Total + Equity.Total is verified at
// build time, never silently corrected.
type BalanceSheet struct {
	AsOf        string              `json:"asOf"`
	Assets      BalanceSheetSection `json:"assets"`
	Liabilities BalanceSheetSection `json:"liabilities"`
	Equity      BalanceSheetSection `json:"equity"`
}
