package main

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "testing"

    "github.com/spf13/cobra"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pmsdash/internal/domain"
    "pmsdash/internal/engine"
)

const sampleDir = "../../testdata/snapshot"

func execute(t *testing.T, args ...string) (string, error) {
    t.Helper()
    t.Setenv("PMSDASH_CONFIG", "")
    t.Setenv("DATABASE_URL", "")
    var out, stderr bytes.Buffer
    root := newRootCmd()
    root.SetOut(&out)
    root.SetErr(&stderr)
    root.SetArgs(args)
    err := root.ExecuteContext(context.Background())
    return out.String(), err
}

func TestReportText(t *testing.T) {
    out, err := execute(t, "report", "--dir", sampleDir)
    require.NoError(t, err)

    assert.Contains(t, out, "All Departments: 6 employees")
    assert.Contains(t, out, "Amara Okafor")
    assert.NotContains(t, out, "Grace Hopper")
    assert.Contains(t, out, "1 unresolved submissions, 1 skipped submissions, 1 orphaned identities")
}

func TestReportDepartmentJSON(t *testing.T) {
    out, err := execute(t, "report", "--dir", sampleDir, "--department", "IT", "--status", "not-started", "--json")
    require.NoError(t, err)

    var view engine.View
    require.NoError(t, json.Unmarshal([]byte(out), &view))
    assert.Equal(t, "IT", view.Department)
    assert.Equal(t, 2, view.Stat.TotalEmployees)
    require.Len(t, view.Roster, 1)
    assert.Equal(t, "Daniel Ruiz", view.Roster[0].Name)
}

func TestReportRejectsUnknownDepartment(t *testing.T) {
    _, err := execute(t, "report", "--dir", sampleDir, "--department", "Legal")
    require.Error(t, err)
    assert.Contains(t, err.Error(), "Finance")
}

func TestReportRejectsBadStatus(t *testing.T) {
    _, err := execute(t, "report", "--dir", sampleDir, "--status", "done")
    assert.True(t, errors.Is(err, engine.ErrInvalidQuery))
}

func TestImportDryRun(t *testing.T) {
    out, err := execute(t, "import", "--dir", sampleDir)
    require.NoError(t, err)
    assert.Contains(t, out, "8 submissions, 6 enabled directory users")
    assert.Contains(t, out, "dry-run")
}

func TestImportRequiresDir(t *testing.T) {
    _, err := execute(t, "import")
    assert.Error(t, err)
}

type fakeRepo struct {
    users []domain.DirectoryUser
    subs  []domain.Submission
    err   error
}

func (f *fakeRepo) ReplaceDirectory(_ context.Context, users []domain.DirectoryUser) (int64, error) {
    f.users = users
    return int64(len(users)), nil
}

func (f *fakeRepo) ReplaceSubmissions(_ context.Context, subs []domain.Submission) (int64, error) {
    if f.err != nil {
        return 0, f.err
    }
    f.subs = subs
    return int64(len(subs)), nil
}

func TestImportSnapshot(t *testing.T) {
    var out bytes.Buffer
    cmd := &cobra.Command{}
    cmd.SetOut(&out)
    cmd.SetContext(context.Background())

    repo := &fakeRepo{}
    users := []domain.DirectoryUser{{ID: "1"}}
    subs := []domain.Submission{{ID: "a"}, {ID: "b"}}
    require.NoError(t, importSnapshot(cmd, repo, users, subs))
    assert.Equal(t, users, repo.users)
    assert.Equal(t, subs, repo.subs)
    assert.Contains(t, out.String(), "imported 1 directory users and 2 submissions")

    repo = &fakeRepo{err: errors.New("copy failed")}
    err := importSnapshot(cmd, repo, users, subs)
    assert.ErrorContains(t, err, "import submissions")
}
