package postgres

import (
    "context"
    "time"

    "github.com/google/uuid"

    "pmsdash/internal/ports"
)

// StartRun records a refresh attempt as running and returns its id.
func (db *DB) StartRun(ctx context.Context, source string) (string, error) {
    id := uuid.NewString()
    _, err := db.Pool.Exec(ctx, `INSERT INTO refresh_runs (id, source, status) VALUES ($1, $2, 'running')`, id, source)
    if err != nil {
        return "", err
    }
    return id, nil
}

func (db *DB) MarkCompleted(ctx context.Context, runID string, counts ports.RunCounts) error {
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    _, err := db.Pool.Exec(ctx, `
        UPDATE refresh_runs
        SET status='completed', finished_at=now(), snapshot_id=$2, submissions=$3, directory_users=$4
        WHERE id=$1
    `, runID, counts.SnapshotID, counts.Submissions, counts.DirectoryUsers)
    return err
}

func (db *DB) MarkFailed(ctx context.Context, runID string, reason string) error {
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    _, err := db.Pool.Exec(ctx, `UPDATE refresh_runs SET status='failed', finished_at=now(), reason=$2 WHERE id=$1`, runID, reason)
    return err
}
