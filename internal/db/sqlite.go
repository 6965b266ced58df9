// Package db provides the SQLite-backed catalog: services, customers,
// employees and the waiting queue.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
)

// SQLite implements booking.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ booking.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SaveService creates a service or replaces the one with the same name.
func (s *SQLite) SaveService(ctx context.Context, svc booking.Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO services (name, price, minutes, abbreviation)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			price = excluded.price,
			minutes = excluded.minutes,
			abbreviation = excluded.abbreviation
	`
	_, err := s.db.ExecContext(ctx, query, svc.Name, svc.Price, svc.Duration.TotalMinutes(), svc.Abbrev)
	if err != nil {
		return fmt.Errorf("saving service %q: %w", svc.Name, err)
	}
	return nil
}

// GetService retrieves a service by name.
func (s *SQLite) GetService(ctx context.Context, name string) (*booking.Service, error) {
	query := `SELECT name, price, minutes, abbreviation FROM services WHERE name = ? COLLATE NOCASE`

	var (
		svc     booking.Service
		minutes int
	)
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)).Scan(&svc.Name, &svc.Price, &minutes, &svc.Abbrev)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", booking.ErrServiceNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying service: %w", err)
	}
	svc.Duration = clock.FromMinutes(minutes)
	return &svc, nil
}

// ListServices returns the catalog ordered by name.
func (s *SQLite) ListServices(ctx context.Context) ([]booking.Service, error) {
	query := `SELECT name, price, minutes, abbreviation FROM services ORDER BY name COLLATE NOCASE`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var services []booking.Service
	for rows.Next() {
		var (
			svc     booking.Service
			minutes int
		)
		if err := rows.Scan(&svc.Name, &svc.Price, &minutes, &svc.Abbrev); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		svc.Duration = clock.FromMinutes(minutes)
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating services: %w", err)
	}
	return services, nil
}

// DeleteService removes a service by name.
func (s *SQLite) DeleteService(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting service: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %q", booking.ErrServiceNotFound, name)
	}
	return nil
}

// SaveCustomer records a customer unless the same name and phone are
// already on file. It reports whether a new entry was created and sets c.ID
// either way.
func (s *SQLite) SaveCustomer(ctx context.Context, c *booking.Customer) (bool, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO customers (first, last, phone, created_at) VALUES (?, ?, ?, ?)`,
		c.First, c.Last, c.Phone, c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting customer: %w", err)
	}
	inserted, _ := result.RowsAffected()

	err = tx.QueryRowContext(ctx,
		`SELECT id FROM customers WHERE first = ? AND last = ? AND phone = ?`,
		c.First, c.Last, c.Phone,
	).Scan(&c.ID)
	if err != nil {
		return false, fmt.Errorf("querying customer id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted > 0, nil
}

// ListCustomers returns the directory ordered by last then first name.
func (s *SQLite) ListCustomers(ctx context.Context) ([]*booking.Customer, error) {
	return s.queryCustomers(ctx, `
		SELECT id, first, last, phone, created_at
		FROM customers
		ORDER BY last COLLATE NOCASE, first COLLATE NOCASE
	`)
}

// SearchCustomers returns customers whose name or phone contains query.
func (s *SQLite) SearchCustomers(ctx context.Context, query string) ([]*booking.Customer, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	return s.queryCustomers(ctx, `
		SELECT id, first, last, phone, created_at
		FROM customers
		WHERE first LIKE ? OR last LIKE ? OR (first || ' ' || last) LIKE ? OR phone LIKE ?
		ORDER BY last COLLATE NOCASE, first COLLATE NOCASE
	`, pattern, pattern, pattern, pattern)
}

func (s *SQLite) queryCustomers(ctx context.Context, query string, args ...any) ([]*booking.Customer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []*booking.Customer
	for rows.Next() {
		var (
			c         booking.Customer
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.First, &c.Last, &c.Phone, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		c.CreatedAt, err = parseTimestamp(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}
	return customers, nil
}

// AddEmployee appends an employee to the roster.
func (s *SQLite) AddEmployee(ctx context.Context, name string) (*booking.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, booking.ErrEmptyName
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking employee: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %q", booking.ErrDuplicateEmployee, name)
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO employees (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("inserting employee: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	return &booking.Employee{ID: id, Name: name}, nil
}

// ListEmployees returns the roster in insertion order.
func (s *SQLite) ListEmployees(ctx context.Context) ([]booking.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var employees []booking.Employee
	for rows.Next() {
		var e booking.Employee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}
	return employees, nil
}

// RemoveEmployee removes an employee by name.
func (s *SQLite) RemoveEmployee(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %q", booking.ErrEmployeeNotFound, name)
	}
	return nil
}

// Enqueue adds a booking to the waiting queue.
func (s *SQLite) Enqueue(ctx context.Context, b *booking.Booking) (*booking.QueueEntry, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding booking: %w", err)
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO queue (booking, created_at) VALUES (?, ?)`,
		string(data), now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting queue entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	return &booking.QueueEntry{ID: id, Booking: b, CreatedAt: now}, nil
}

// ListQueue returns waiting bookings, oldest first.
func (s *SQLite) ListQueue(ctx context.Context) ([]*booking.QueueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, booking, created_at FROM queue ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying queue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*booking.QueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating queue: %w", err)
	}
	return entries, nil
}

// GetQueueEntry retrieves a waiting booking by queue ID.
func (s *SQLite) GetQueueEntry(ctx context.Context, id int64) (*booking.QueueEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, booking, created_at FROM queue WHERE id = ?`, id)
	e, err := scanQueueEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", booking.ErrQueueEntryNotFound, id)
	}
	return e, err
}

// Dequeue removes a waiting booking by queue ID.
func (s *SQLite) Dequeue(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting queue entry: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", booking.ErrQueueEntryNotFound, id)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQueueEntry(row scanner) (*booking.QueueEntry, error) {
	var (
		e         booking.QueueEntry
		data      string
		createdAt string
	)
	if err := row.Scan(&e.ID, &data, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning queue entry: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &e.Booking); err != nil {
		return nil, fmt.Errorf("decoding queued booking %d: %w", e.ID, err)
	}

	var err error
	e.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &e, nil
}

// parseTimestamp parses a timestamp in the formats SQLite might return.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
