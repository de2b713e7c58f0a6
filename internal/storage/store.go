// Package storage is the sqlite persistence layer. One Store serves both
// the API server and the sync worker.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rege/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// User is a stored account. PasswordHash is a bcrypt hash, never the
// plaintext.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	CreatedAt    time.Time
}

// PendingSyncTransaction is the minimal row the sync queue needs.
type PendingSyncTransaction struct {
	ID      int64
	Version int64
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath and applies
// migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping verifies the database connection is still usable. Readiness probes
// call this.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateUser inserts a new account. Returns ErrDuplicate when the email is
// already registered.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, phone)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, strings.ToLower(u.Email), u.PasswordHash, u.FullName, u.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, phone, created_at
		FROM users WHERE email = ?`, strings.ToLower(email)))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, phone, created_at
		FROM users WHERE id = ?`, id))
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// UpdateUserProfile changes the mutable profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, id, fullName, phone string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, fullName, phone, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res)
}

// CreateTransaction inserts a transaction and returns it with its assigned
// id. New rows start with sync_status 'pending'.
func (s *Store) CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, title, amount_cents, kind, category, tx_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, tx.Title, tx.Amount.Cents, string(tx.Kind), tx.Category, tx.Date.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	tx.ID = id
	return tx, nil
}

// ListTransactions returns all of a user's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, amount_cents, kind, category, tx_date
		FROM transactions WHERE user_id = ?
		ORDER BY tx_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// GetTransaction fetches one transaction scoped to its owner.
func (s *Store) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, amount_cents, kind, category, tx_date
		FROM transactions WHERE user_id = ? AND id = ?`, userID, id)

	var (
		tx      core.Transaction
		kind    string
		rawDate string
	)
	err := row.Scan(&tx.ID, &tx.Title, &tx.Amount.Cents, &kind, &tx.Category, &rawDate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	tx.Kind = core.Kind(kind)
	if tx.Date, err = core.ParseDate(rawDate); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d has bad date %q: %w", tx.ID, rawDate, err)
	}
	return tx, nil
}

// DeleteTransaction removes a transaction scoped to its owner. Returns
// ErrNotFound when the row does not exist or belongs to someone else.
func (s *Store) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// CreateCategory inserts a user-defined category keyed by its slug.
func (s *Store) CreateCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, key, label, icon, kind, color_hex)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, c.Key, c.Label, string(c.Icon), string(c.Kind), c.Colors.Hex)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("category %s: %w", c.Key, ErrDuplicate)
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("last insert id: %w", err)
	}
	c.ID = fmt.Sprintf("%d", id)
	return c, nil
}

// ListCategories returns a user's custom categories.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, label, icon, kind, color_hex
		FROM categories WHERE user_id = ?
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var (
			c          core.Category
			icon, kind string
		)
		var hex string
		if err := rows.Scan(&c.ID, &c.Key, &c.Label, &icon, &kind, &hex); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Icon, _ = core.ParseIcon(icon)
		c.Kind = core.Kind(kind)
		c.Colors = core.PaletteColor(hex)
		c.Colors.Hex = hex
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// GetPendingSync returns transactions waiting to be mirrored to the backup
// sheet, oldest first.
func (s *Store) GetPendingSync(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	return pending, nil
}

// GetTransactionForSync loads the full row the worker pushes to the sheet,
// without owner scoping.
func (s *Store) GetTransactionForSync(ctx context.Context, id int64) (string, core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, id, title, amount_cents, kind, category, tx_date
		FROM transactions WHERE id = ?`, id)

	var (
		userID  string
		tx      core.Transaction
		kind    string
		rawDate string
	)
	err := row.Scan(&userID, &tx.ID, &tx.Title, &tx.Amount.Cents, &kind, &tx.Category, &rawDate)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return "", core.Transaction{}, fmt.Errorf("get transaction for sync: %w", err)
	}
	tx.Kind = core.Kind(kind)
	if tx.Date, err = core.ParseDate(rawDate); err != nil {
		return "", core.Transaction{}, fmt.Errorf("transaction %d has bad date %q: %w", tx.ID, rawDate, err)
	}
	return userID, tx, nil
}

func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	return s.setSyncStatus(ctx, id, "synced")
}

func (s *Store) MarkSyncError(ctx context.Context, id int64) error {
	return s.setSyncStatus(ctx, id, "error")
}

func (s *Store) setSyncStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		kind    string
		rawDate string
	)
	if err := row.Scan(&tx.ID, &tx.Title, &tx.Amount.Cents, &kind, &tx.Category, &rawDate); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Kind = core.Kind(kind)
	d, err := core.ParseDate(rawDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d has bad date %q: %w", tx.ID, rawDate, err)
	}
	tx.Date = d
	return tx, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
