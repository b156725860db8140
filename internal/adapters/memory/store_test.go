package memory

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "pmsdash/internal/domain"
    "pmsdash/internal/ports"
)

func TestStoreLatest(t *testing.T) {
    var _ ports.SnapshotStore = NewStore()
    var _ ports.RunLog = NopRunLog{}

    s := NewStore()
    _, ok := s.Latest()
    assert.False(t, ok)

    s.Put(domain.Snapshot{ID: "one"})
    s.Put(domain.Snapshot{ID: "two"})
    got, ok := s.Latest()
    assert.True(t, ok)
    assert.Equal(t, "two", got.ID)
}
