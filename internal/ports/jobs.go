package ports

import "context"

// RunCounts are the input sizes recorded for a finished refresh run.
type RunCounts struct {
    SnapshotID     string
    Submissions    int
    DirectoryUsers int
}

// RunLog records refresh runs so operators can see when data last arrived.
type RunLog interface {
    StartRun(ctx context.Context, source string) (runID string, err error)
    MarkCompleted(ctx context.Context, runID string, counts RunCounts) error
    MarkFailed(ctx context.Context, runID string, reason string) error
}
