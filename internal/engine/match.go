package engine

import (
    "strings"

    "pmsdash/internal/domain"
)

// Candidate is the author signal extracted from a submission before any
// directory cross-reference.
type Candidate struct {
    Name  string
    Email string
}

func (c Candidate) empty() bool { return c.Name == "" && c.Email == "" }

// extractor pulls a candidate out of one author-bearing field.
type extractor struct {
    name    string
    extract func(domain.Submission) Candidate
}

// extractors run in order; the first non-empty candidate wins.
var extractors = []extractor{
    {name: "createdBy", extract: fromCreatedBy},
    {name: "author", extract: fromAuthorText},
    {name: "authorLookup", extract: fromAuthorLookup},
    {name: "createdByField", extract: fromCreatedByField},
}

func fromCreatedBy(s domain.Submission) Candidate {
    if s.CreatedBy == nil {
        return Candidate{}
    }
    u := s.CreatedBy
    c := Candidate{
        Name:  firstNonEmpty(u.DisplayName, u.Mail),
        Email: firstNonEmpty(u.Mail, u.UserPrincipalName),
    }
    if c.Name == "" {
        c.Name = c.Email
    }
    return c
}

func fromAuthorText(s domain.Submission) Candidate {
    if s.Author.Kind != domain.AuthorText {
        return Candidate{}
    }
    return Candidate{Name: strings.TrimSpace(s.Author.Text)}
}

func fromAuthorLookup(s domain.Submission) Candidate {
    if s.Author.Kind != domain.AuthorLookup {
        return Candidate{}
    }
    l := s.Author.Lookup
    c := Candidate{
        Name:  firstNonEmpty(l.LookupValue, l.DisplayName),
        Email: strings.TrimSpace(l.Email),
    }
    if c.Name == "" {
        c.Name = c.Email
    }
    return c
}

func fromCreatedByField(s domain.Submission) Candidate {
    switch s.CreatedByField.Kind {
    case domain.AuthorText:
        return Candidate{Name: strings.TrimSpace(s.CreatedByField.Text)}
    case domain.AuthorLookup:
        return Candidate{Name: strings.TrimSpace(s.CreatedByField.Lookup.LookupValue)}
    }
    return Candidate{}
}

// Extract runs the extractor chain and reports which strategy produced the
// candidate.
func Extract(s domain.Submission) (Candidate, string, bool) {
    for _, ex := range extractors {
        if c := ex.extract(s); !c.empty() {
            return c, ex.name, true
        }
    }
    return Candidate{}, "", false
}

// MatchResult is a submission author resolved to an identity.
type MatchResult struct {
    IdentityKey string
    DisplayName string
    Email       string
    Department  string
    // DirectoryID is empty when no directory user matched the candidate.
    DirectoryID string
    Strategy    string
}

// Matched reports whether the candidate was found in the directory.
func (m MatchResult) Matched() bool { return m.DirectoryID != "" }

// Resolve attributes a submission to an identity. It returns false when no
// author signal could be extracted.
func Resolve(s domain.Submission, dir *Directory) (MatchResult, bool) {
    c, strategy, ok := Extract(s)
    if !ok {
        return MatchResult{}, false
    }
    res := MatchResult{
        DisplayName: c.Name,
        Email:       c.Email,
        Department:  domain.UnknownDepartment,
        Strategy:    strategy,
    }
    if user, found := dir.Lookup(c.Email, c.Name); found {
        // A matched submission is keyed by the directory user, so mail and
        // principal name variants of one person land in one record.
        res.Department = user.DepartmentOrUnknown()
        res.DirectoryID = firstNonEmpty(user.ID, user.Address(), user.DisplayName)
        res.DisplayName = firstNonEmpty(user.DisplayName, res.DisplayName)
        res.Email = firstNonEmpty(user.Address(), res.Email)
        res.IdentityKey = foldKey(firstNonEmpty(user.Address(), user.DisplayName, res.DirectoryID))
        return res, true
    }
    res.IdentityKey = foldKey(firstNonEmpty(res.Email, res.DisplayName))
    return res, true
}

func firstNonEmpty(vals ...string) string {
    for _, v := range vals {
        if v = strings.TrimSpace(v); v != "" {
            return v
        }
    }
    return ""
}
