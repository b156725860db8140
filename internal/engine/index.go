package engine

import (
    "sort"

    "pmsdash/internal/domain"
)

// Directory indexes directory users for O(1) identity lookups.
type Directory struct {
    Users []domain.DirectoryUser

    byAddress map[string]int
    byName    map[string]int
    byDept    map[string][]int
}

// NewDirectory builds the lookup index. Addresses (mail and principal name)
// and display names are indexed separately; for duplicates the first user
// wins, since duplicate resolution is left to the directory owner.
func NewDirectory(users []domain.DirectoryUser) *Directory {
    d := &Directory{
        Users:     users,
        byAddress: make(map[string]int, len(users)*2),
        byName:    make(map[string]int, len(users)),
        byDept:    make(map[string][]int),
    }
    for i, u := range users {
        for _, addr := range []string{u.Mail, u.UserPrincipalName} {
            if k := foldKey(addr); k != "" {
                if _, exists := d.byAddress[k]; !exists {
                    d.byAddress[k] = i
                }
            }
        }
        if k := foldKey(u.DisplayName); k != "" {
            if _, exists := d.byName[k]; !exists {
                d.byName[k] = i
            }
        }
        dept := u.DepartmentOrUnknown()
        d.byDept[dept] = append(d.byDept[dept], i)
    }
    return d
}

// Lookup finds the directory user for a candidate. The email is tried against
// addresses first, then the name against display names, then the name against
// addresses for authors recorded only by their mail address.
func (d *Directory) Lookup(email, name string) (domain.DirectoryUser, bool) {
    if k := foldKey(email); k != "" {
        if i, ok := d.byAddress[k]; ok {
            return d.Users[i], true
        }
        if i, ok := d.byName[k]; ok {
            return d.Users[i], true
        }
    }
    if k := foldKey(name); k != "" {
        if i, ok := d.byName[k]; ok {
            return d.Users[i], true
        }
        if i, ok := d.byAddress[k]; ok {
            return d.Users[i], true
        }
    }
    return domain.DirectoryUser{}, false
}

// Departments returns the known department labels, sorted.
func (d *Directory) Departments() []string {
    out := make([]string, 0, len(d.byDept))
    for dept := range d.byDept {
        out = append(out, dept)
    }
    sort.Strings(out)
    return out
}

// HasDepartment reports whether any directory user belongs to dept.
func (d *Directory) HasDepartment(dept string) bool {
    _, ok := d.byDept[dept]
    return ok
}

// Members returns the users bucketed under dept.
func (d *Directory) Members(dept string) []domain.DirectoryUser {
    idx := d.byDept[dept]
    out := make([]domain.DirectoryUser, 0, len(idx))
    for _, i := range idx {
        out = append(out, d.Users[i])
    }
    return out
}
