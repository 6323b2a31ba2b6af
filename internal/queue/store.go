package queue

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (orders without the synced flag)
// 2 - Added synced column + index on orders.synced
const currentSchemaVersion = 2

// Store is the durable order queue. It is backed by a local SQLite file
// so queued orders survive process restarts.
type Store struct {
	db *sql.DB
}

// Open creates or opens the queue database at the given path and applies
// pragmas and migrations. Safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to queue database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY on concurrent enqueues.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Enqueue persists an order with synced=0 and returns its assigned id.
// The insert is synchronous: once Enqueue returns, the order survives a
// crash.
func (s *Store) Enqueue(ctx context.Context, o Order) (int64, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal items: %v", ErrDurability, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (items, total, created_at, synced) VALUES (?, ?, ?, 0)`,
		string(items), o.Total, o.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDurability, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDurability, err)
	}
	return id, nil
}

// ListUnsynced returns orders not yet confirmed delivered, in creation
// order.
func (s *Store) ListUnsynced(ctx context.Context) ([]Order, error) {
	return s.list(ctx, `SELECT id, items, total, created_at, synced FROM orders WHERE synced = 0 ORDER BY id`)
}

// ListAll returns every order ever enqueued, newest first. Rows are kept
// after delivery as an audit trail.
func (s *Store) ListAll(ctx context.Context) ([]Order, error) {
	return s.list(ctx, `SELECT id, items, total, created_at, synced FROM orders ORDER BY id DESC`)
}

func (s *Store) list(ctx context.Context, query string) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var (
			o       Order
			items   string
			created string
			synced  int
		)
		if err := rows.Scan(&o.ID, &items, &o.Total, &created, &synced); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			return nil, fmt.Errorf("decode items for order %d: %w", o.ID, err)
		}
		o.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("decode created_at for order %d: %w", o.ID, err)
		}
		o.Synced = synced != 0
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkSynced flags an order as delivered. Idempotent: marking an
// already-synced order is a no-op.
func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV2 adds the synced column to databases created before it
// existed. Pre-existing rows default to unsynced so they are picked up
// by the next scan. New databases get the column from schema.sql.
func migrateToV2(db *sql.DB) error {
	hasCol, err := hasColumn(db, "orders", "synced")
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	if !hasCol {
		if _, err := db.Exec(`ALTER TABLE orders ADD COLUMN synced INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_synced ON orders(synced)`); err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
