package engine

import (
    "pmsdash/internal/domain"
)

// Chart labels and colour tokens, in legend order.
const (
    LabelCompleted  = "Completed"
    LabelInProgress = "In Progress"
    LabelNotStarted = "Not Started"

    ColorCompleted  = "#4ade80"
    ColorInProgress = "#fbbf24"
    ColorNotStarted = "#f87171"
)

// View is the presentation-ready slice of a pass for one department or for
// the whole organisation.
type View struct {
    Department string               `json:"department"`
    Stat       domain.Stat          `json:"stat"`
    Series     []domain.SeriesPoint `json:"series"`
    Roster     []domain.RosterEntry `json:"roster"`
}

// IsAllDepartments reports whether dept means "no filter".
func IsAllDepartments(dept string) bool {
    return dept == "" || dept == domain.AllDepartments
}

// Present shapes records and directory into chart series and a roster. With a
// department filter both are derived from the filtered inputs rather than
// sliced from organisation totals.
func Present(records []domain.EmployeePerformanceRecord, dir *Directory, department string) View {
    members := dir.Users
    scoped := records
    label := domain.AllDepartments
    if !IsAllDepartments(department) {
        members = dir.Members(department)
        scoped = departmentRecords(records, department)
        label = department
    }
    st := computeStat(members, scoped)
    return View{
        Department: label,
        Stat:       st,
        Series:     Series(st),
        Roster:     buildRoster(scoped, members),
    }
}

// Series returns exactly three points in fixed order, zero counts included.
// Percentages are shares of totalEmployees, so with orphaned records the
// organisation series can add up to more than 100.
func Series(st domain.Stat) []domain.SeriesPoint {
    total := st.TotalEmployees
    return []domain.SeriesPoint{
        {Label: LabelCompleted, Count: st.Completed, ColorToken: ColorCompleted, Percentage: percent(st.Completed, total)},
        {Label: LabelInProgress, Count: st.InProgress, ColorToken: ColorInProgress, Percentage: percent(st.InProgress, total)},
        {Label: LabelNotStarted, Count: st.NotStarted, ColorToken: ColorNotStarted, Percentage: percent(st.NotStarted, total)},
    }
}

func buildRoster(records []domain.EmployeePerformanceRecord, members []domain.DirectoryUser) []domain.RosterEntry {
    roster := make([]domain.RosterEntry, 0, len(records)+len(members))
    for _, r := range records {
        c := Classify(r.IdentityKey, r.Submissions)
        roster = append(roster, domain.RosterEntry{
            Name:             r.Name,
            Email:            r.Email,
            Department:       r.Department,
            Status:           c.Status,
            SubmissionCount:  c.SubmissionCount,
            FirstSubmittedAt: c.FirstSubmittedAt,
            LastSubmittedAt:  c.LastSubmittedAt,
        })
    }
    cov := newCoverage(records)
    for _, u := range members {
        if cov.covers(u) {
            continue
        }
        roster = append(roster, domain.RosterEntry{
            Name:       u.DisplayName,
            Email:      u.Address(),
            Department: u.DepartmentOrUnknown(),
            Status:     domain.StatusNotStarted,
        })
    }
    return roster
}

// View presents the result for department and applies the roster query.
func (r *Result) View(department string, q RosterQuery) View {
    v := Present(r.Records, r.Directory, department)
    v.Roster = q.Apply(v.Roster)
    return v
}
