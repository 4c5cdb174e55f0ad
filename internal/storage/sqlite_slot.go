package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
)

// SQLiteSlot implements Slot on the kv_slots table.
type SQLiteSlot struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteSlot creates a slot store backed by conn.
func NewSQLiteSlot(conn *sql.DB) *SQLiteSlot {
	return &SQLiteSlot{db: conn, uow: db.NewSQLiteUnitOfWork(conn)}
}

// NewSQLiteSlotWithUoW lets callers supply the transaction boundary used by
// Put, typically a fault-injecting UoW in tests.
func NewSQLiteSlotWithUoW(conn db.DBTX, uow db.UnitOfWork) *SQLiteSlot {
	return &SQLiteSlot{db: conn, uow: uow}
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("slot %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading slot %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put writes value and bumps the slot revision in one transaction.
func (s *SQLiteSlot) Put(ctx context.Context, key string, value []byte) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var rev int64
		err := tx.QueryRowContext(ctx, `SELECT revision FROM kv_slots WHERE key = ?`, key).Scan(&rev)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reading slot revision: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO kv_slots (key, value, revision, updated_at) VALUES (?, ?, ?, ?)`,
			key, string(value), rev+1, nowUTC())
		if err != nil {
			return fmt.Errorf("writing slot %q: %w", key, err)
		}
		return nil
	})
}

func (s *SQLiteSlot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}
	return nil
}

// Revision returns the write counter for key, or 0 if it was never written.
// Readers in other processes compare revisions to detect new writes.
func (s *SQLiteSlot) Revision(ctx context.Context, key string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM kv_slots WHERE key = ?`, key).Scan(&rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading slot revision: %w", err)
	}
	return rev, nil
}
