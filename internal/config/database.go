package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// SetupDatabase opens the database connection pool. Schema creation is the
// migration runner's job, not done here.
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Single writer, concurrent readers under WAL
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)

	return db, nil
}
