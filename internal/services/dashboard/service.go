package dashboard

import (
    "context"
    "errors"
    "fmt"

    "pmsdash/internal/domain"
    "pmsdash/internal/engine"
    "pmsdash/internal/ports"
)

var (
    ErrNoSnapshot        = errors.New("no snapshot loaded yet")
    ErrUnknownDepartment = errors.New("unknown department")
)

// Service answers dashboard queries by reconciling the latest snapshot on
// every call.
type Service struct {
    store ports.SnapshotStore
}

func New(store ports.SnapshotStore) *Service { return &Service{store: store} }

func (s *Service) reconcile() (domain.Snapshot, *engine.Result, error) {
    snap, ok := s.store.Latest()
    if !ok {
        return snap, nil, ErrNoSnapshot
    }
    return snap, engine.Reconcile(snap.Submissions, snap.Directory), nil
}

func (s *Service) Dashboard(ctx context.Context, q ports.DashboardQuery) (ports.DashboardView, error) {
    snap, res, err := s.reconcile()
    if err != nil {
        return ports.DashboardView{}, err
    }
    if !engine.IsAllDepartments(q.Department) && !res.Directory.HasDepartment(q.Department) {
        return ports.DashboardView{}, fmt.Errorf("%w: %s", ErrUnknownDepartment, q.Department)
    }
    return ports.DashboardView{
        SnapshotID:  snap.ID,
        View:        res.View(q.Department, q.Roster),
        Departments: res.Directory.Departments(),
        Overall:     res.Overall,
    }, nil
}

func (s *Service) Departments(ctx context.Context) (map[string]domain.Stat, error) {
    _, res, err := s.reconcile()
    if err != nil {
        return nil, err
    }
    return res.Departments, nil
}

func (s *Service) Diagnostics(ctx context.Context) (ports.Diagnostics, error) {
    snap, res, err := s.reconcile()
    if err != nil {
        return ports.Diagnostics{}, err
    }
    return ports.Diagnostics{
        Snapshot: snap,
        Engine:   res.Diagnostics,
        Counts:   ports.SnapshotCounts{Submissions: len(snap.Submissions), DirectoryUsers: len(snap.Directory)},
    }, nil
}
