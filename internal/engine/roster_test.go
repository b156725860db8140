package engine

import (
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pmsdash/internal/domain"
)

func rosterFixture() []domain.RosterEntry {
    day := func(d int) *time.Time {
        t := time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
        return &t
    }
    return []domain.RosterEntry{
        {Name: "carol", Email: "carol@x.com", Department: "IT", Status: domain.StatusInProgress, SubmissionCount: 2, LastSubmittedAt: day(3)},
        {Name: "Alice", Email: "alice@x.com", Department: "Finance", Status: domain.StatusApproved, SubmissionCount: 1, LastSubmittedAt: day(1)},
        {Name: "Bob", Email: "bob@x.com", Department: "Finance", Status: domain.StatusNotStarted},
        {Name: "dave", Email: "dave@x.com", Department: "HR", Status: domain.StatusApproved, SubmissionCount: 1, LastSubmittedAt: day(9)},
    }
}

func names(entries []domain.RosterEntry) []string {
    out := make([]string, len(entries))
    for i, e := range entries {
        out[i] = e.Name
    }
    return out
}

func TestRosterSortByNameIgnoresCase(t *testing.T) {
    got := RosterQuery{Sort: SortName}.Apply(rosterFixture())
    assert.Equal(t, []string{"Alice", "Bob", "carol", "dave"}, names(got))
}

func TestRosterSortRecentFirst(t *testing.T) {
    got := RosterQuery{Sort: SortRecent}.Apply(rosterFixture())
    assert.Equal(t, []string{"dave", "carol", "Alice", "Bob"}, names(got))
}

func TestRosterSortByDepartmentIsStable(t *testing.T) {
    got := RosterQuery{Sort: SortDepartment}.Apply(rosterFixture())
    assert.Equal(t, []string{"Alice", "Bob", "dave", "carol"}, names(got))
}

func TestRosterSortByStatus(t *testing.T) {
    got := RosterQuery{Sort: SortStatus}.Apply(rosterFixture())
    assert.Equal(t, []string{"Alice", "dave", "carol", "Bob"}, names(got))
}

func TestRosterStatusFilter(t *testing.T) {
    in := rosterFixture()
    assert.Equal(t, []string{"Alice", "dave"}, names(RosterQuery{Status: FilterCompleted}.Apply(in)))
    assert.Equal(t, []string{"carol"}, names(RosterQuery{Status: FilterInProgress}.Apply(in)))
    assert.Equal(t, []string{"Bob"}, names(RosterQuery{Status: FilterNotStarted}.Apply(in)))
    assert.Len(t, RosterQuery{Status: FilterAll}.Apply(in), 4)
}

func TestRosterSearchSpansFields(t *testing.T) {
    in := rosterFixture()
    assert.Equal(t, []string{"Alice", "Bob"}, names(RosterQuery{Search: "FIN"}.Apply(in)))
    assert.Equal(t, []string{"dave"}, names(RosterQuery{Search: "dave@"}.Apply(in)))
    assert.Empty(t, RosterQuery{Search: "zzz"}.Apply(in))
}

func TestRosterFiltersCombine(t *testing.T) {
    got := RosterQuery{Search: "finance", Status: FilterCompleted, Sort: SortRecent}.Apply(rosterFixture())
    assert.Equal(t, []string{"Alice"}, names(got))
}

func TestRosterApplyDoesNotMutateInput(t *testing.T) {
    in := rosterFixture()
    _ = RosterQuery{Sort: SortRecent}.Apply(in)
    assert.Equal(t, "carol", in[0].Name)
}

func TestParseQueryValues(t *testing.T) {
    f, err := ParseStatusFilter("progress")
    require.NoError(t, err)
    assert.Equal(t, FilterInProgress, f)

    f, err = ParseStatusFilter("")
    require.NoError(t, err)
    assert.Equal(t, FilterAll, f)

    k, err := ParseSortKey("date")
    require.NoError(t, err)
    assert.Equal(t, SortRecent, k)

    _, err = ParseStatusFilter("done")
    assert.True(t, errors.Is(err, ErrInvalidQuery))
    _, err = ParseSortKey("salary")
    assert.True(t, errors.Is(err, ErrInvalidQuery))
}
