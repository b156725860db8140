package refresher

import (
    "context"
    "fmt"
    "sync"
    "time"

    "go.uber.org/zap"

    "pmsdash/internal/domain"
    "pmsdash/internal/ports"
)

// Runner fetches fresh snapshots and publishes them to the store. Each
// attempt is recorded in the run log.
type Runner struct {
    Source     ports.SnapshotSource
    Store      ports.SnapshotStore
    Runs       ports.RunLog
    Log        *zap.Logger
    SourceName string

    mu sync.Mutex // serialises ticker and on-demand refreshes
}

// RefreshOnce fetches and stores one snapshot. The previous snapshot stays in
// place when the fetch fails.
func (r *Runner) RefreshOnce(ctx context.Context) (domain.Snapshot, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    runID, err := r.Runs.StartRun(ctx, r.SourceName)
    if err != nil {
        r.Log.Warn("refresh run not recorded", zap.Error(err))
    }
    snap, err := r.Source.Fetch(ctx)
    if err != nil {
        if runID != "" {
            if mErr := r.Runs.MarkFailed(ctx, runID, err.Error()); mErr != nil {
                r.Log.Warn("mark run failed", zap.String("run_id", runID), zap.Error(mErr))
            }
        }
        return domain.Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
    }
    r.Store.Put(snap)
    if runID != "" {
        counts := ports.RunCounts{SnapshotID: snap.ID, Submissions: len(snap.Submissions), DirectoryUsers: len(snap.Directory)}
        if err := r.Runs.MarkCompleted(ctx, runID, counts); err != nil {
            r.Log.Warn("mark run completed", zap.String("run_id", runID), zap.Error(err))
        }
    }
    r.Log.Info("snapshot refreshed",
        zap.String("snapshot_id", snap.ID),
        zap.Int("submissions", len(snap.Submissions)),
        zap.Int("directory_users", len(snap.Directory)),
    )
    return snap, nil
}

// Run refreshes immediately and then on every interval until ctx is done.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
    if interval <= 0 {
        return
    }
    if _, err := r.RefreshOnce(ctx); err != nil {
        r.Log.Error("initial refresh failed", zap.Error(err))
    }
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            if _, err := r.RefreshOnce(ctx); err != nil {
                r.Log.Error("refresh failed", zap.Error(err))
            }
        }
    }
}
