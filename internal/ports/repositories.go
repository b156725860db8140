package ports

import (
    "context"

    "pmsdash/internal/domain"
)

// SnapshotStore keeps the latest fetched snapshot in memory.
type SnapshotStore interface {
    Latest() (domain.Snapshot, bool)
    Put(s domain.Snapshot)
}

// ImportRepository replaces stored source collections, used by the import tool.
type ImportRepository interface {
    ReplaceDirectory(ctx context.Context, users []domain.DirectoryUser) (int64, error)
    ReplaceSubmissions(ctx context.Context, subs []domain.Submission) (int64, error)
}
