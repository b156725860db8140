package memory

import (
    "context"
    "sync/atomic"

    "pmsdash/internal/domain"
    "pmsdash/internal/ports"
)

// Store holds the latest snapshot. Readers never block the refresher.
type Store struct {
    latest atomic.Pointer[domain.Snapshot]
}

func NewStore() *Store { return &Store{} }

func (s *Store) Latest() (domain.Snapshot, bool) {
    p := s.latest.Load()
    if p == nil {
        return domain.Snapshot{}, false
    }
    return *p, true
}

func (s *Store) Put(snap domain.Snapshot) { s.latest.Store(&snap) }

// NopRunLog discards refresh run records, for sources without a database.
type NopRunLog struct{}

func (NopRunLog) StartRun(context.Context, string) (string, error)              { return "", nil }
func (NopRunLog) MarkCompleted(context.Context, string, ports.RunCounts) error { return nil }
func (NopRunLog) MarkFailed(context.Context, string, string) error             { return nil }
