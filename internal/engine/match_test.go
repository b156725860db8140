package engine

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pmsdash/internal/domain"
)

func TestExtractPrecedence(t *testing.T) {
    cases := []struct {
        name     string
        sub      domain.Submission
        want     Candidate
        strategy string
    }{
        {
            name: "created by user wins over author",
            sub: domain.Submission{
                CreatedBy: &domain.UserRef{DisplayName: "Ann Lee", UserPrincipalName: "ann@x.com"},
                Author:    domain.TextAuthor("Someone Else"),
            },
            want:     Candidate{Name: "Ann Lee", Email: "ann@x.com"},
            strategy: "createdBy",
        },
        {
            name:     "created by with only mail",
            sub:      domain.Submission{CreatedBy: &domain.UserRef{Mail: "ann@x.com"}},
            want:     Candidate{Name: "ann@x.com", Email: "ann@x.com"},
            strategy: "createdBy",
        },
        {
            name: "empty created by falls through to author text",
            sub: domain.Submission{
                CreatedBy: &domain.UserRef{},
                Author:    domain.TextAuthor("  Bob Ray "),
            },
            want:     Candidate{Name: "Bob Ray"},
            strategy: "author",
        },
        {
            name:     "lookup value before display name",
            sub:      domain.Submission{Author: domain.LookupAuthor(domain.Lookup{LookupValue: "Cid", DisplayName: "Cid Long", Email: "cid@x.com"})},
            want:     Candidate{Name: "Cid", Email: "cid@x.com"},
            strategy: "authorLookup",
        },
        {
            name:     "lookup display name",
            sub:      domain.Submission{Author: domain.LookupAuthor(domain.Lookup{DisplayName: "Cid Long"})},
            want:     Candidate{Name: "Cid Long"},
            strategy: "authorLookup",
        },
        {
            name: "secondary field lookup value",
            sub: domain.Submission{
                Author:         domain.LookupAuthor(domain.Lookup{}),
                CreatedByField: domain.LookupAuthor(domain.Lookup{LookupValue: "Dee"}),
            },
            want:     Candidate{Name: "Dee"},
            strategy: "createdByField",
        },
        {
            name:     "secondary field text",
            sub:      domain.Submission{CreatedByField: domain.TextAuthor("Eve")},
            want:     Candidate{Name: "Eve"},
            strategy: "createdByField",
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got, strategy, ok := Extract(tc.sub)
            require.True(t, ok)
            assert.Equal(t, tc.want, got)
            assert.Equal(t, tc.strategy, strategy)
        })
    }
}

func TestExtractNothing(t *testing.T) {
    _, _, ok := Extract(domain.Submission{Author: domain.TextAuthor("   ")})
    assert.False(t, ok)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
    dir := NewDirectory([]domain.DirectoryUser{user("1", "Jane Doe", "jane@x.com", "HR")})

    m, ok := Resolve(byAuthor("s1", "JANE DOE", "Approved"), dir)

    require.True(t, ok)
    assert.True(t, m.Matched())
    assert.Equal(t, "HR", m.Department)
    assert.Equal(t, "jane@x.com", m.IdentityKey)
}

func TestResolveNeverMatchesSubstrings(t *testing.T) {
    dir := NewDirectory([]domain.DirectoryUser{user("1", "Jon Smith", "jon@x.com", "Ops")})

    m, ok := Resolve(byAuthor("s1", "Jonathan Smithson", "Approved"), dir)

    require.True(t, ok)
    assert.False(t, m.Matched())
    assert.Equal(t, domain.UnknownDepartment, m.Department)
    assert.Equal(t, "jonathan smithson", m.IdentityKey)
}

func TestResolveByPrincipalName(t *testing.T) {
    dir := NewDirectory([]domain.DirectoryUser{{ID: "9", DisplayName: "Kim", UserPrincipalName: "kim@corp.onmicrosoft.com", AccountEnabled: true}})

    m, ok := Resolve(byMail("s1", "KIM@corp.onmicrosoft.com", "Approved"), dir)

    require.True(t, ok)
    assert.Equal(t, "9", m.DirectoryID)
    assert.Equal(t, domain.UnknownDepartment, m.Department)
}

func TestResolveKeysMatchedSubmissionsByDirectoryUser(t *testing.T) {
    ann := domain.DirectoryUser{ID: "1", DisplayName: "Ann", Mail: "ann@x.com", UserPrincipalName: "ann@corp.onmicrosoft.com", Department: "Finance", AccountEnabled: true}
    dir := NewDirectory([]domain.DirectoryUser{ann})
    byUPN := domain.Submission{ID: "s2", CreatedAt: "2024-03-01T09:00:00Z", CreatedBy: &domain.UserRef{UserPrincipalName: "ann@corp.onmicrosoft.com"}}

    tests := []domain.Submission{byMail("s1", "ANN@x.com", "Approved"), byUPN, byAuthor("s3", "ann", "Pending")}
    for _, sub := range tests {
        m, ok := Resolve(sub, dir)
        require.True(t, ok, sub.ID)
        assert.Equal(t, "ann@x.com", m.IdentityKey, sub.ID)
        assert.Equal(t, "ann@x.com", m.Email, sub.ID)
        assert.Equal(t, "Ann", m.DisplayName, sub.ID)
    }
}

func TestResolveAuthorRecordedAsAddress(t *testing.T) {
    dir := NewDirectory([]domain.DirectoryUser{user("1", "Lee", "lee@x.com", "Legal")})

    m, ok := Resolve(byAuthor("s1", "Lee@X.com", "Approved"), dir)

    require.True(t, ok)
    assert.Equal(t, "Legal", m.Department)
}

func TestDirectoryFirstDuplicateWins(t *testing.T) {
    dir := NewDirectory([]domain.DirectoryUser{
        user("1", "Sam", "sam@x.com", "A"),
        user("2", "Sam", "sam2@x.com", "B"),
    })
    u, ok := dir.Lookup("", "sam")
    require.True(t, ok)
    assert.Equal(t, "1", u.ID)
    assert.Equal(t, []string{"A", "B"}, dir.Departments())
}

func TestFoldKeyHandlesUnicode(t *testing.T) {
    assert.Equal(t, foldKey("STRASSE"), foldKey("strasse"))
    // Precomposed and decomposed forms compare equal.
    assert.Equal(t, foldKey("Jos\u00e9"), foldKey("Jose\u0301"))
    assert.Empty(t, foldKey("  "))
}

func TestClassify(t *testing.T) {
    t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    t2 := t1.Add(48 * time.Hour)

    c := Classify("k", []domain.SubmissionEntry{{State: "Approved", CreatedAt: t1}})
    assert.Equal(t, domain.StatusApproved, c.Status)
    assert.Equal(t, 1, c.SubmissionCount)

    c = Classify("k", []domain.SubmissionEntry{
        {State: "Approved", CreatedAt: t2},
        {State: "Pending", CreatedAt: t1},
    })
    assert.Equal(t, domain.StatusInProgress, c.Status)
    assert.Equal(t, 2, c.SubmissionCount)
    require.NotNil(t, c.FirstSubmittedAt)
    assert.Equal(t, t1, *c.FirstSubmittedAt)
    assert.Equal(t, t2, *c.LastSubmittedAt)

    c = Classify("k", nil)
    assert.Equal(t, domain.StatusNotStarted, c.Status)
    assert.Nil(t, c.FirstSubmittedAt)
}

func TestClassifyApprovedIsExactLabel(t *testing.T) {
    c := Classify("k", []domain.SubmissionEntry{{State: "approved"}})
    assert.Equal(t, domain.StatusInProgress, c.Status)
}
