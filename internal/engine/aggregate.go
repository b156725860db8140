package engine

import (
    "math"

    "pmsdash/internal/domain"
)

// Aggregation holds the organisation stat and one stat per directory department.
type Aggregation struct {
    Overall     domain.Stat
    Departments map[string]domain.Stat
}

// Aggregate computes department and organisation statistics.
//
// Departments are taken from the directory only. A record whose identity is
// not in the directory (orphaned attribution) counts towards the organisation
// totals but never towards a department bucket, so the organisation may show
// completed+inProgress+notStarted above totalEmployees by the number of
// orphaned records.
func Aggregate(dir *Directory, records []domain.EmployeePerformanceRecord) Aggregation {
    agg := Aggregation{
        Overall:     computeStat(dir.Users, records),
        Departments: make(map[string]domain.Stat),
    }
    for _, dept := range dir.Departments() {
        agg.Departments[dept] = computeStat(dir.Members(dept), departmentRecords(records, dept))
    }
    return agg
}

// departmentRecords keeps the directory-backed records in dept.
func departmentRecords(records []domain.EmployeePerformanceRecord, dept string) []domain.EmployeePerformanceRecord {
    var out []domain.EmployeePerformanceRecord
    for _, r := range records {
        if !r.Orphaned() && r.Department == dept {
            out = append(out, r)
        }
    }
    return out
}

// coverage answers "does this directory user already have a record".
type coverage struct {
    keys keySet
    ids  map[string]struct{}
}

func newCoverage(records []domain.EmployeePerformanceRecord) coverage {
    c := coverage{keys: keySet{}, ids: make(map[string]struct{})}
    for _, r := range records {
        c.keys.add(r.IdentityKey)
        if r.DirectoryID != "" {
            c.ids[r.DirectoryID] = struct{}{}
        }
    }
    return c
}

func (c coverage) covers(u domain.DirectoryUser) bool {
    if u.ID != "" {
        if _, ok := c.ids[u.ID]; ok {
            return true
        }
    }
    return c.keys.covers(u.Mail, u.UserPrincipalName, u.DisplayName)
}

func computeStat(members []domain.DirectoryUser, records []domain.EmployeePerformanceRecord) domain.Stat {
    st := domain.Stat{TotalEmployees: len(members)}
    for _, r := range records {
        switch r.Status {
        case domain.StatusApproved:
            st.Completed++
        case domain.StatusInProgress:
            st.InProgress++
        }
    }
    cov := newCoverage(records)
    for _, u := range members {
        if !cov.covers(u) {
            st.NotStarted++
        }
    }
    st.CompletionRate = percent(st.Completed, st.TotalEmployees)
    return st
}

// percent returns part/total*100 rounded to one decimal, or 0 for an empty total.
func percent(part, total int) domain.Rate {
    if total <= 0 {
        return 0
    }
    return domain.Rate(math.Round(float64(part)/float64(total)*1000) / 10)
}
