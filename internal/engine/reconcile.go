// Package engine reconciles performance-agreement submissions against the
// organisation directory and rolls the outcome up into per-department and
// organisation-wide completion statistics.
//
// Every function here is pure: callers hand in complete snapshots and get
// freshly computed values back. Nothing is cached between calls.
package engine

import (
    "strings"
    "time"

    "pmsdash/internal/domain"
)

// Skip reasons recorded in Diagnostics.
const (
    ReasonMissingID   = "missing id"
    ReasonMissingDate = "missing createdDateTime"
    ReasonBadDate     = "unparseable createdDateTime"
)

// Skipped records a submission that was left out of the pass.
type Skipped struct {
    Index  int    `json:"index"`
    ID     string `json:"id,omitempty"`
    Reason string `json:"reason"`
}

// Diagnostics lists anomalies found while reconciling. It is returned with
// the result and is meant for operators, not for the roster.
type Diagnostics struct {
    TotalSubmissions int            `json:"totalSubmissions"`
    Attributed       int            `json:"attributed"`
    Unresolved       int            `json:"unresolved"`
    UnresolvedIDs    []string       `json:"unresolvedIds"`
    Skipped          []Skipped      `json:"skipped"`
    Orphaned         []string       `json:"orphanedIdentities"`
    Strategies       map[string]int `json:"strategies"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
    Directory   *Directory                         `json:"-"`
    Records     []domain.EmployeePerformanceRecord `json:"records"`
    Overall     domain.Stat                        `json:"overall"`
    Departments map[string]domain.Stat             `json:"departments"`
    Diagnostics Diagnostics                        `json:"diagnostics"`
}

// Reconcile runs the full pass: attribution, classification and aggregation.
func Reconcile(subs []domain.Submission, users []domain.DirectoryUser) *Result {
    dir := NewDirectory(users)
    records, diag := Attribute(subs, dir)
    agg := Aggregate(dir, records)
    return &Result{
        Directory:   dir,
        Records:     records,
        Overall:     agg.Overall,
        Departments: agg.Departments,
        Diagnostics: diag,
    }
}

// Attribute resolves every submission and groups the survivors into one
// classified record per identity, in order of first appearance.
func Attribute(subs []domain.Submission, dir *Directory) ([]domain.EmployeePerformanceRecord, Diagnostics) {
    diag := Diagnostics{
        TotalSubmissions: len(subs),
        UnresolvedIDs:    []string{},
        Skipped:          []Skipped{},
        Orphaned:         []string{},
        Strategies:       map[string]int{},
    }
    var records []domain.EmployeePerformanceRecord
    byKey := make(map[string]int)

    for i, s := range subs {
        id := strings.TrimSpace(s.ID)
        if id == "" {
            diag.Skipped = append(diag.Skipped, Skipped{Index: i, Reason: ReasonMissingID})
            continue
        }
        created, reason := parseCreated(s.CreatedAt)
        if reason != "" {
            diag.Skipped = append(diag.Skipped, Skipped{Index: i, ID: id, Reason: reason})
            continue
        }
        m, ok := Resolve(s, dir)
        if !ok {
            diag.Unresolved++
            diag.UnresolvedIDs = append(diag.UnresolvedIDs, id)
            continue
        }
        diag.Attributed++
        diag.Strategies[m.Strategy]++

        idx, seen := byKey[m.IdentityKey]
        if !seen {
            idx = len(records)
            byKey[m.IdentityKey] = idx
            records = append(records, domain.EmployeePerformanceRecord{
                IdentityKey: m.IdentityKey,
                Name:        m.DisplayName,
                Email:       m.Email,
                Department:  m.Department,
                DirectoryID: m.DirectoryID,
            })
            if !m.Matched() {
                diag.Orphaned = append(diag.Orphaned, m.IdentityKey)
            }
        }
        state := strings.TrimSpace(s.ApprovalState)
        if state == "" {
            state = domain.NotStartedState
        }
        records[idx].Submissions = append(records[idx].Submissions, domain.SubmissionEntry{
            ID:        id,
            State:     state,
            CreatedAt: created,
        })
    }

    for i := range records {
        records[i].Status = Classify(records[i].IdentityKey, records[i].Submissions).Status
    }
    return records, diag
}

var createdLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseCreated(raw string) (time.Time, string) {
    raw = strings.TrimSpace(raw)
    if raw == "" {
        return time.Time{}, ReasonMissingDate
    }
    for _, layout := range createdLayouts {
        if t, err := time.Parse(layout, raw); err == nil {
            return t.UTC(), ""
        }
    }
    return time.Time{}, ReasonBadDate
}
