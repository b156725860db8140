package engine

import (
    "errors"
    "fmt"
    "sort"
    "strings"

    "golang.org/x/text/collate"
    "golang.org/x/text/language"

    "pmsdash/internal/domain"
)

// ErrInvalidQuery is returned for unknown status filters or sort keys.
var ErrInvalidQuery = errors.New("invalid roster query")

type StatusFilter string

const (
    FilterAll        StatusFilter = "all"
    FilterCompleted  StatusFilter = "completed"
    FilterInProgress StatusFilter = "in-progress"
    FilterNotStarted StatusFilter = "not-started"
)

// ParseStatusFilter accepts the filter names used by the dashboard; an empty
// value means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "all":
        return FilterAll, nil
    case "completed", "approved":
        return FilterCompleted, nil
    case "in-progress", "progress", "inprogress":
        return FilterInProgress, nil
    case "not-started", "notstarted":
        return FilterNotStarted, nil
    }
    return "", fmt.Errorf("%w: status %q", ErrInvalidQuery, s)
}

func (f StatusFilter) match(st domain.Status) bool {
    switch f {
    case FilterCompleted:
        return st == domain.StatusApproved
    case FilterInProgress:
        return st == domain.StatusInProgress
    case FilterNotStarted:
        return st == domain.StatusNotStarted
    }
    return true
}

type SortKey string

const (
    SortName       SortKey = "name"
    SortStatus     SortKey = "status"
    SortDepartment SortKey = "department"
    // SortRecent puts the most recent submission first; entries without
    // submissions go last.
    SortRecent SortKey = "recent"
)

func ParseSortKey(s string) (SortKey, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "name":
        return SortName, nil
    case "status":
        return SortStatus, nil
    case "department":
        return SortDepartment, nil
    case "recent", "date":
        return SortRecent, nil
    }
    return "", fmt.Errorf("%w: sort %q", ErrInvalidQuery, s)
}

// RosterQuery combines search, status filter and sort. The three are
// independent and the zero value returns the roster sorted by name.
type RosterQuery struct {
    Search string
    Status StatusFilter
    Sort   SortKey
}

// Apply returns a filtered, sorted copy of entries.
func (q RosterQuery) Apply(entries []domain.RosterEntry) []domain.RosterEntry {
    term := foldKey(q.Search)
    out := make([]domain.RosterEntry, 0, len(entries))
    for _, e := range entries {
        if !q.Status.match(e.Status) {
            continue
        }
        if term != "" && !matchesSearch(e, term) {
            continue
        }
        out = append(out, e)
    }
    sortRoster(out, q.Sort)
    return out
}

func matchesSearch(e domain.RosterEntry, term string) bool {
    for _, field := range []string{e.Name, e.Email, e.Department} {
        if strings.Contains(foldKey(field), term) {
            return true
        }
    }
    return false
}

func sortRoster(entries []domain.RosterEntry, key SortKey) {
    col := collate.New(language.English, collate.IgnoreCase)
    var less func(a, b domain.RosterEntry) bool
    switch key {
    case SortStatus:
        less = func(a, b domain.RosterEntry) bool { return col.CompareString(string(a.Status), string(b.Status)) < 0 }
    case SortDepartment:
        less = func(a, b domain.RosterEntry) bool { return col.CompareString(a.Department, b.Department) < 0 }
    case SortRecent:
        less = func(a, b domain.RosterEntry) bool {
            if a.LastSubmittedAt == nil || b.LastSubmittedAt == nil {
                return a.LastSubmittedAt != nil && b.LastSubmittedAt == nil
            }
            return a.LastSubmittedAt.After(*b.LastSubmittedAt)
        }
    default:
        less = func(a, b domain.RosterEntry) bool { return col.CompareString(a.Name, b.Name) < 0 }
    }
    sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
}
