package migrate

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Timestamp triggers stamp UTC via datetime('now'). The update triggers are
// restricted to the data columns so they do not refire on the stamp itself.
const (
	chartCreatedTrigger = `
		CREATE TRIGGER trg_chart_created AFTER INSERT ON chart
		BEGIN
			UPDATE chart SET created_at = datetime('now'), updated_at = datetime('now')
			WHERE id = NEW.id;
		END`
	chartUpdatedTrigger = `
		CREATE TRIGGER trg_chart_updated AFTER UPDATE OF name, type, parent_id ON chart
		BEGIN
			UPDATE chart SET updated_at = datetime('now') WHERE id = NEW.id;
		END`
)

func createChart(ctx context.Context, tx *sqlx.Tx) error {
	stmts := []string{
		`CREATE TABLE chart (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			type       TEXT NOT NULL CHECK (type IN ('Asset','Liability','Equity','Revenue')),
			parent_id  INTEGER REFERENCES chart(id),
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT '',
			UNIQUE (name, type)
		)`,
		chartCreatedTrigger,
		chartUpdatedTrigger,
	}
	return execAll(ctx, tx, stmts)
}

func createAccount(ctx context.Context, tx *sqlx.Tx) error {
	stmts := []string{
		`CREATE TABLE account (
			id         INTEGER PRIMARY KEY,
			chart_id   INTEGER NOT NULL REFERENCES chart(id),
			name       TEXT NOT NULL,
			code       TEXT NOT NULL DEFAULT '',
			is_active  INTEGER NOT NULL DEFAULT 1,
			address    TEXT NOT NULL DEFAULT '',
			contact    TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT '',
			UNIQUE (chart_id, name, code)
		)`,
		`CREATE TRIGGER trg_account_created AFTER INSERT ON account
		BEGIN
			UPDATE account SET created_at = datetime('now'), updated_at = datetime('now')
			WHERE id = NEW.id;
		END`,
		`CREATE TRIGGER trg_account_updated
		AFTER UPDATE OF chart_id, name, code, is_active, address, contact ON account
		BEGIN
			UPDATE account SET updated_at = datetime('now') WHERE id = NEW.id;
		END`,
	}
	return execAll(ctx, tx, stmts)
}

func createJournal(ctx context.Context, tx *sqlx.Tx) error {
	stmts := []string{
		`CREATE TABLE journal (
			id         TEXT PRIMARY KEY,
			date       TEXT NOT NULL,
			narration  TEXT NOT NULL DEFAULT '',
			is_posted  INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT ''
		)`,
		// Amounts are stored as decimal text to keep exact fixed-precision
		// values out of REAL affinity.
		`CREATE TABLE journal_items (
			id                INTEGER PRIMARY KEY,
			journal_id        TEXT NOT NULL REFERENCES journal(id) ON DELETE CASCADE,
			account_id        INTEGER NOT NULL REFERENCES account(id),
			linked_account_id INTEGER REFERENCES account(id),
			debit_amount      TEXT NOT NULL DEFAULT '0',
			credit_amount     TEXT NOT NULL DEFAULT '0',
			created_at        TEXT NOT NULL DEFAULT '',
			updated_at        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX idx_journal_items_account ON journal_items(account_id)`,
		`CREATE INDEX idx_journal_items_journal ON journal_items(journal_id)`,
		`CREATE TRIGGER trg_journal_created AFTER INSERT ON journal
		BEGIN
			UPDATE journal SET created_at = datetime('now'), updated_at = datetime('now')
			WHERE id = NEW.id;
		END`,
		`CREATE TRIGGER trg_journal_updated
		AFTER UPDATE OF date, narration, is_posted ON journal
		BEGIN
			UPDATE journal SET updated_at = datetime('now') WHERE id = NEW.id;
		END`,
		`CREATE TRIGGER trg_journal_items_created AFTER INSERT ON journal_items
		BEGIN
			UPDATE journal_items SET created_at = datetime('now'), updated_at = datetime('now')
			WHERE id = NEW.id;
		END`,
		`CREATE TRIGGER trg_journal_items_updated
		AFTER UPDATE OF journal_id, account_id, linked_account_id, debit_amount, credit_amount
		ON journal_items
		BEGIN
			UPDATE journal_items SET updated_at = datetime('now') WHERE id = NEW.id;
		END`,
	}
	return execAll(ctx, tx, stmts)
}

// widenChartTypeCheck rewrites chart to admit the 'Expense' type. Column
// order must match the original so the verbatim row copy lines up.
func widenChartTypeCheck(ctx context.Context, tx *sqlx.Tx) error {
	const shadowDDL = `
		CREATE TABLE chart_new (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			type       TEXT NOT NULL CHECK (type IN ('Asset','Liability','Equity','Revenue','Expense')),
			parent_id  INTEGER REFERENCES chart(id),
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT '',
			UNIQUE (name, type)
		)`
	return rewriteTable(ctx, tx, "chart", shadowDDL,
		[]string{chartCreatedTrigger, chartUpdatedTrigger})
}

func accountOpeningBalance(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx,
		`ALTER TABLE account ADD COLUMN opening_balance TEXT NOT NULL DEFAULT '0'`)
	return err
}

func execAll(ctx context.Context, tx *sqlx.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
