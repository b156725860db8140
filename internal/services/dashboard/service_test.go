package dashboard

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pmsdash/internal/adapters/memory"
    "pmsdash/internal/domain"
    "pmsdash/internal/engine"
    "pmsdash/internal/ports"
)

func seeded() *memory.Store {
    store := memory.NewStore()
    store.Put(domain.Snapshot{
        ID: "snap-1",
        Directory: []domain.DirectoryUser{
            {ID: "1", DisplayName: "Ann", Mail: "ann@x.com", Department: "Finance", AccountEnabled: true},
            {ID: "2", DisplayName: "Bob", Mail: "bob@x.com", Department: "IT", AccountEnabled: true},
        },
        Submissions: []domain.Submission{
            {ID: "s1", CreatedAt: "2024-01-01T00:00:00Z", CreatedBy: &domain.UserRef{Mail: "ann@x.com"}, ApprovalState: "Approved"},
            {ID: "s2", CreatedAt: "2024-01-01T00:00:00Z"},
        },
    })
    return store
}

func TestDashboardWithoutSnapshot(t *testing.T) {
    var _ ports.Dashboard = New(memory.NewStore())
    _, err := New(memory.NewStore()).Dashboard(context.Background(), ports.DashboardQuery{})
    assert.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestDashboardAllDepartments(t *testing.T) {
    v, err := New(seeded()).Dashboard(context.Background(), ports.DashboardQuery{Department: domain.AllDepartments})
    require.NoError(t, err)

    assert.Equal(t, "snap-1", v.SnapshotID)
    assert.Equal(t, []string{"Finance", "IT"}, v.Departments)
    assert.Equal(t, domain.Stat{TotalEmployees: 2, Completed: 1, NotStarted: 1, CompletionRate: 50}, v.Stat)
    assert.Equal(t, v.Overall, v.Stat)
    assert.Len(t, v.Roster, 2)
}

func TestDashboardDepartmentFilter(t *testing.T) {
    v, err := New(seeded()).Dashboard(context.Background(), ports.DashboardQuery{
        Department: "IT",
        Roster:     engine.RosterQuery{Status: engine.FilterNotStarted},
    })
    require.NoError(t, err)

    assert.Equal(t, "IT", v.Department)
    require.Len(t, v.Roster, 1)
    assert.Equal(t, "Bob", v.Roster[0].Name)
    assert.Equal(t, 1, v.Series[2].Count)
}

func TestDashboardUnknownDepartment(t *testing.T) {
    _, err := New(seeded()).Dashboard(context.Background(), ports.DashboardQuery{Department: "Marketing"})
    assert.True(t, errors.Is(err, ErrUnknownDepartment))
}

func TestDiagnosticsCountsUnresolved(t *testing.T) {
    d, err := New(seeded()).Diagnostics(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 1, d.Engine.Unresolved)
    assert.Equal(t, ports.SnapshotCounts{Submissions: 2, DirectoryUsers: 2}, d.Counts)
}
