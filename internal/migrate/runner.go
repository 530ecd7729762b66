package migrate

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ledgercore/accounting-server/internal/models"
)

// Applied identifies one migration recorded as applied.
type Applied struct {
	Seq  int    `db:"seq"`
	Name string `db:"name"`
}

// ApplyPending applies every registered migration not yet recorded in
// schema_migrations, in ascending sequence order, one transaction per step.
// A step's schema change and its record row commit atomically. On the first
// failure the runner halts and returns a *models.MigrationError naming the
// failing step; already-applied steps are never reapplied, so a rerun
// retries exactly the failed suffix. Applying an up-to-date store is a
// no-op.
func ApplyPending(ctx context.Context, db *sqlx.DB, registry []Migration) ([]Applied, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			seq        INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to ensure migration record table: %w", err)
	}

	var records []Applied
	if err := db.SelectContext(ctx, &records,
		`SELECT seq, name FROM schema_migrations ORDER BY seq ASC`); err != nil {
		return nil, fmt.Errorf("failed to read migration record: %w", err)
	}

	// The record must be an exact prefix of the registry: same sequence
	// numbers, same names, nothing skipped or reordered.
	if len(records) > len(registry) {
		return nil, fmt.Errorf("migration record has %d entries but only %d migrations are registered",
			len(records), len(registry))
	}
	for i, rec := range records {
		if rec.Seq != registry[i].Seq || rec.Name != registry[i].Name {
			return nil, &models.MigrationError{
				Seq:  rec.Seq,
				Name: rec.Name,
				Err: fmt.Errorf("recorded migration does not match registry entry %03d_%s",
					registry[i].Seq, registry[i].Name),
			}
		}
	}

	var applied []Applied
	for _, m := range registry[len(records):] {
		if err := applyOne(ctx, db, m); err != nil {
			return applied, &models.MigrationError{Seq: m.Seq, Name: m.Name, Err: err}
		}
		applied = append(applied, Applied{Seq: m.Seq, Name: m.Name})
	}

	return applied, nil
}

// applyOne runs a single migration inside its own transaction and records it
// in schema_migrations before commit. Structural steps suspend foreign-key
// enforcement for the duration; the PRAGMA is per-connection and a no-op
// inside a transaction, so the step is pinned to one connection and the
// toggle happens outside the transaction, restored on every exit path.
func applyOne(ctx context.Context, db *sqlx.DB, m Migration) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if m.Structural {
		if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
			return fmt.Errorf("failed to suspend foreign keys: %w", err)
		}
		defer conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := m.Run(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (seq, name, applied_at) VALUES (?, ?, datetime('now'))`,
		m.Seq, m.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// rewriteTable performs the five-step shadow-table protocol for structural
// rewrites: create the shadow with the new structure, copy all rows
// verbatim, drop the original, rename the shadow into place, and reissue
// the triggers that referenced the original table (trigger definitions do
// not survive the rename).
func rewriteTable(ctx context.Context, tx *sqlx.Tx, table, shadowDDL string, triggers []string) error {
	shadow := table + "_new"

	if _, err := tx.ExecContext(ctx, shadowDDL); err != nil {
		return fmt.Errorf("failed to create shadow table %s: %w", shadow, err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s SELECT * FROM %s`, shadow, table)); err != nil {
		return fmt.Errorf("failed to copy rows into %s: %w", shadow, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE %s`, table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE %s RENAME TO %s`, shadow, table)); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", shadow, table, err)
	}
	for _, ddl := range triggers {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to recreate trigger on %s: %w", table, err)
		}
	}

	return nil
}
