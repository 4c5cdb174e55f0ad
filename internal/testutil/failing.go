package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/storage"
)

// FailingSlot wraps a Slot and injects errors. A nil Slot behaves as an
// empty MemorySlot.
type FailingSlot struct {
	Slot   storage.Slot
	PutErr error
	GetErr error

	once sync.Once
	puts atomic.Int32
}

func (f *FailingSlot) inner() storage.Slot {
	f.once.Do(func() {
		if f.Slot == nil {
			f.Slot = storage.NewMemorySlot()
		}
	})
	return f.Slot
}

func (f *FailingSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.inner().Get(ctx, key)
}

func (f *FailingSlot) Put(ctx context.Context, key string, value []byte) error {
	f.puts.Add(1)
	if f.PutErr != nil {
		return f.PutErr
	}
	return f.inner().Put(ctx, key, value)
}

func (f *FailingSlot) Delete(ctx context.Context, key string) error {
	return f.inner().Delete(ctx, key)
}

// PutCalls reports how many writes were attempted.
func (f *FailingSlot) PutCalls() int {
	return int(f.puts.Load())
}

// FailingExecUoW runs the callback in a real transaction but fails every
// ExecContext with Err, so writes roll back while reads still work.
type FailingExecUoW struct {
	DB  *sql.DB
	Err error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if fnErr := fn(ctx, &failingExec{DBTX: tx, err: u.Err}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	err error
}

func (f *failingExec) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
