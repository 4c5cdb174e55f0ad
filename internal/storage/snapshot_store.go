package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/metrics"
)

// StateKey is the fixed slot key holding the serialized snapshot.
const StateKey = "waypoint.state"

// SnapshotStore persists one domain.Snapshot in a Slot as JSON.
//
// Persistence is best-effort: Load reports absent or corrupt data as nil and
// Save logs write failures instead of returning them, so the in-memory store
// never blocks on the medium.
type SnapshotStore struct {
	slot     Slot
	key      string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// SnapshotStoreOption configures a SnapshotStore.
type SnapshotStoreOption func(*SnapshotStore)

// WithKey overrides StateKey.
func WithKey(key string) SnapshotStoreOption {
	return func(s *SnapshotStore) { s.key = key }
}

func WithLogger(l *slog.Logger) SnapshotStoreOption {
	return func(s *SnapshotStore) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithRecorder(r metrics.Recorder) SnapshotStoreOption {
	return func(s *SnapshotStore) { s.recorder = metrics.OrNoop(r) }
}

// NewSnapshotStore wraps slot.
func NewSnapshotStore(slot Slot, opts ...SnapshotStoreOption) *SnapshotStore {
	s := &SnapshotStore{
		slot:     slot,
		key:      StateKey,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key in use.
func (s *SnapshotStore) Key() string { return s.key }

// Load returns the persisted snapshot, or nil when nothing usable is stored.
func (s *SnapshotStore) Load(ctx context.Context) *domain.Snapshot {
	data, err := s.slot.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.recorder.IncLoad(metrics.LoadEmpty)
			return nil
		}
		s.recorder.IncLoad(metrics.LoadError)
		s.logger.WarnContext(ctx, "snapshot_load_failed", "key", s.key, "error", err.Error())
		return nil
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		s.recorder.IncLoad(metrics.LoadCorrupt)
		s.logger.WarnContext(ctx, "snapshot_corrupt", "key", s.key, "bytes", len(data), "error", err.Error())
		return nil
	}
	if snap == nil {
		s.recorder.IncLoad(metrics.LoadEmpty)
		return nil
	}
	s.recorder.IncLoad(metrics.LoadFound)
	return snap
}

// Save writes snap. Failures are logged and counted, never returned.
func (s *SnapshotStore) Save(ctx context.Context, snap domain.Snapshot) {
	if err := s.save(ctx, snap); err != nil {
		s.recorder.IncPersist(metrics.ResultFailure)
		s.logger.ErrorContext(ctx, "snapshot_save_failed", "key", s.key, "error", err.Error())
		return
	}
	s.recorder.IncPersist(metrics.ResultSuccess)
}

func (s *SnapshotStore) save(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.slot.Put(ctx, s.key, data)
}

// Clear deletes the persisted snapshot.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.slot.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(data []byte) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
