package ports

import (
    "context"

    "pmsdash/internal/domain"
    "pmsdash/internal/engine"
)

// SnapshotSource fetches a complete pair of input collections. Implementations
// must return either a full snapshot or an error, never a partial one.
type SnapshotSource interface {
    Fetch(ctx context.Context) (domain.Snapshot, error)
}

// DashboardQuery selects a department view and shapes its roster.
type DashboardQuery struct {
    Department string
    Roster     engine.RosterQuery
}

// DashboardView is what the UI renders for one query.
type DashboardView struct {
    SnapshotID string `json:"snapshotId"`
    engine.View
    Departments []string    `json:"departments"`
    Overall     domain.Stat `json:"overall"`
}

// Dashboard serves reconciled views of the latest snapshot.
type Dashboard interface {
    Dashboard(ctx context.Context, q DashboardQuery) (DashboardView, error)
    Departments(ctx context.Context) (map[string]domain.Stat, error)
    Diagnostics(ctx context.Context) (Diagnostics, error)
}

// Diagnostics bundles source and engine anomalies for operators.
type Diagnostics struct {
    Snapshot domain.Snapshot    `json:"snapshot"`
    Engine   engine.Diagnostics `json:"engine"`
    Counts   SnapshotCounts     `json:"counts"`
}

// SnapshotCounts summarises the size of a snapshot.
type SnapshotCounts struct {
    Submissions    int `json:"submissions"`
    DirectoryUsers int `json:"directoryUsers"`
}

// Refresher triggers an immediate snapshot refresh.
type Refresher interface {
    RefreshOnce(ctx context.Context) (domain.Snapshot, error)
}
