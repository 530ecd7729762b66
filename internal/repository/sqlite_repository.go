package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/shopspring/decimal"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// Chart operations
	CreateChart(ctx context.Context, chart *models.Chart) error
	GetChart(ctx context.Context, id int64) (*models.Chart, error)
	GetChartByNameType(ctx context.Context, name string, chartType models.ChartType) (*models.Chart, error)
	ListCharts(ctx context.Context) ([]models.Chart, error)

	// Account operations
	CreateAccounts(ctx context.Context, accounts []*models.Account) error
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	FindAccountByIdentity(ctx context.Context, chartID int64, name, code string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// Journal operations
	CreateJournal(ctx context.Context, journal *models.Journal) error
	GetJournal(ctx context.Context, id string) (*models.Journal, error)

	// Ledger reads
	ListPostedEntries(ctx context.Context, accountID int64, from, to string) ([]models.PostedEntry, error)
	SumPostedBefore(ctx context.Context, accountID int64, before string) (debit, credit decimal.Decimal, err error)
	NetPostedThrough(ctx context.Context, through string) (map[int64]decimal.Decimal, error)
}

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *SQLiteRepository) GetDB() *sqlx.DB {
	return r.db
}

// Chart repository methods
func (r *SQLiteRepository) CreateChart(ctx context.Context, chart *models.Chart) error {
	query := `
		INSERT INTO chart (name, type, parent_id)
		VALUES (?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query, chart.Name, chart.Type, chart.ParentID)
	if err != nil {
		return fmt.Errorf("failed to insert chart: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read chart id: %w", err)
	}
	chart.ID = id

	// Re-read for the trigger-stamped timestamps
	stamped, err := r.GetChart(ctx, id)
	if err != nil {
		return err
	}
	if stamped != nil {
		*chart = *stamped
	}

	return nil
}

func (r *SQLiteRepository) GetChart(ctx context.Context, id int64) (*models.Chart, error) {
	query := `SELECT * FROM chart WHERE id = ?`

	var chart models.Chart
	err := r.db.GetContext(ctx, &chart, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Chart not found
		}
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}

	return &chart, nil
}

func (r *SQLiteRepository) GetChartByNameType(
	ctx context.Context,
	name string,
	chartType models.ChartType,
) (*models.Chart, error) {
	query := `SELECT * FROM chart WHERE name = ? AND type = ?`

	var chart models.Chart
	err := r.db.GetContext(ctx, &chart, query, name, chartType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chart by name: %w", err)
	}

	return &chart, nil
}

func (r *SQLiteRepository) ListCharts(ctx context.Context) ([]models.Chart, error) {
	query := `SELECT * FROM chart ORDER BY type, parent_id IS NOT NULL, name`

	var charts []models.Chart
	if err := r.db.SelectContext(ctx, &charts, query); err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}

	return charts, nil
}

// Account repository methods

// CreateAccounts inserts the given accounts in a single transaction. Either
// every account is written or none is; the bulk import path routes through
// here with the same rows as manual entry.
func (r *SQLiteRepository) CreateAccounts(ctx context.Context, accounts []*models.Account) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	query := `
		INSERT INTO account (chart_id, name, code, is_active, address, contact, opening_balance)
		VALUES (?, ?, ?, 1, ?, ?, ?)
	`

	for _, account := range accounts {
		var res sql.Result
		res, err = tx.ExecContext(ctx, query,
			account.ChartID, account.Name, account.Code,
			account.Address, account.Contact,
			account.OpeningBalance.StringFixed(models.AmountScale))
		if err != nil {
			err = fmt.Errorf("failed to insert account %q: %w", account.Name, err)
			return err
		}

		account.ID, err = res.LastInsertId()
		if err != nil {
			err = fmt.Errorf("failed to read account id: %w", err)
			return err
		}
		account.IsActive = true
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit accounts: %w", err)
	}

	// Re-read for the trigger-stamped timestamps
	for _, account := range accounts {
		stamped, gerr := r.GetAccount(ctx, account.ID)
		if gerr != nil {
			return gerr
		}
		if stamped != nil {
			*account = *stamped
		}
	}

	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT * FROM account WHERE id = ?`

	var account models.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Account not found
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func (r *SQLiteRepository) FindAccountByIdentity(
	ctx context.Context,
	chartID int64,
	name string,
	code string,
) (*models.Account, error) {
	query := `SELECT * FROM account WHERE chart_id = ? AND name = ? AND code = ?`

	var account models.Account
	err := r.db.GetContext(ctx, &account, query, chartID, name, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `SELECT * FROM account ORDER BY chart_id, name`

	var accounts []models.Account
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

// Journal repository methods

// CreateJournal writes the journal row and all of its entries in a single
// transaction. Readers never observe a partially written journal.
func (r *SQLiteRepository) CreateJournal(ctx context.Context, journal *models.Journal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO journal (id, date, narration, is_posted) VALUES (?, ?, ?, ?)`,
		journal.ID, journal.Date, journal.Narration, journal.IsPosted)
	if err != nil {
		err = fmt.Errorf("failed to insert journal: %w", err)
		return err
	}

	itemQuery := `
		INSERT INTO journal_items (journal_id, account_id, linked_account_id, debit_amount, credit_amount)
		VALUES (?, ?, ?, ?, ?)
	`

	for i := range journal.Entries {
		entry := &journal.Entries[i]
		var res sql.Result
		res, err = tx.ExecContext(ctx, itemQuery,
			journal.ID, entry.AccountID, entry.LinkedAccountID,
			entry.DebitAmount.StringFixed(models.AmountScale),
			entry.CreditAmount.StringFixed(models.AmountScale))
		if err != nil {
			err = fmt.Errorf("failed to insert journal entry: %w", err)
			return err
		}

		entry.ID, err = res.LastInsertId()
		if err != nil {
			err = fmt.Errorf("failed to read journal entry id: %w", err)
			return err
		}
		entry.JournalID = journal.ID
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetJournal(ctx context.Context, id string) (*models.Journal, error) {
	var journal models.Journal
	err := r.db.GetContext(ctx, &journal, `SELECT * FROM journal WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Journal not found
		}
		return nil, fmt.Errorf("failed to get journal: %w", err)
	}

	err = r.db.SelectContext(ctx, &journal.Entries,
		`SELECT * FROM journal_items WHERE journal_id = ? ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entries: %w", err)
	}

	return &journal, nil
}

// Ledger read methods

// ListPostedEntries returns the posted legs touching an account, ordered by
// journal date then insertion order. Empty from/to leave that bound open.
func (r *SQLiteRepository) ListPostedEntries(
	ctx context.Context,
	accountID int64,
	from string,
	to string,
) ([]models.PostedEntry, error) {
	query := `
		SELECT ji.id AS entry_id, j.id AS journal_id, j.date AS date,
		       j.narration AS narration, la.name AS linked_name,
		       ji.debit_amount, ji.credit_amount
		FROM journal_items ji
		JOIN journal j ON j.id = ji.journal_id
		LEFT JOIN account la ON la.id = ji.linked_account_id
		WHERE ji.account_id = ? AND j.is_posted = 1
	`

	args := []interface{}{accountID}

	if from != "" {
		query += ` AND j.date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND j.date <= ?`
		args = append(args, to)
	}

	query += ` ORDER BY j.date ASC, ji.id ASC`

	var entries []models.PostedEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posted entries: %w", err)
	}

	return entries, nil
}

// SumPostedBefore totals the posted debits and credits of an account dated
// strictly before the given date. Feeds the projector's opening seed.
func (r *SQLiteRepository) SumPostedBefore(
	ctx context.Context,
	accountID int64,
	before string,
) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT ji.debit_amount, ji.credit_amount
		FROM journal_items ji
		JOIN journal j ON j.id = ji.journal_id
		WHERE ji.account_id = ? AND j.is_posted = 1 AND j.date < ?
	`

	var rows []struct {
		Debit  decimal.Decimal `db:"debit_amount"`
		Credit decimal.Decimal `db:"credit_amount"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, accountID, before); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries before %s: %w", before, err)
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, row := range rows {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}

	return debit, credit, nil
}

// NetPostedThrough returns, per account, the sum of debits minus credits
// across posted entries dated on or before the given date. Sums are carried
// as exact decimals in Go rather than in SQL.
func (r *SQLiteRepository) NetPostedThrough(
	ctx context.Context,
	through string,
) (map[int64]decimal.Decimal, error) {
	query := `
		SELECT ji.account_id, ji.debit_amount, ji.credit_amount
		FROM journal_items ji
		JOIN journal j ON j.id = ji.journal_id
		WHERE j.is_posted = 1 AND j.date <= ?
	`

	var rows []struct {
		AccountID int64           `db:"account_id"`
		Debit     decimal.Decimal `db:"debit_amount"`
		Credit    decimal.Decimal `db:"credit_amount"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, through); err != nil {
		return nil, fmt.Errorf("failed to sum entries through %s: %w", through, err)
	}

	nets := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		nets[row.AccountID] = nets[row.AccountID].Add(row.Debit).Sub(row.Credit)
	}

	return nets, nil
}
