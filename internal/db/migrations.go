package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS services (
			name         TEXT PRIMARY KEY,
			price        INTEGER NOT NULL CHECK(price >= 0),
			minutes      INTEGER NOT NULL CHECK(minutes > 0),
			abbreviation TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS customers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first      TEXT NOT NULL,
			last       TEXT NOT NULL,
			phone      TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(first, last, phone)
		);

		CREATE TABLE IF NOT EXISTS employees (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		);

		CREATE TABLE IF NOT EXISTS queue (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			booking    TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating catalog tables: %w", err)
	}

	return nil
}
