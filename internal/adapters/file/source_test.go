package file

import (
    "context"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pmsdash/internal/domain"
)

func writeSnapshot(t *testing.T, subs, dir string) string {
    t.Helper()
    d := t.TempDir()
    require.NoError(t, os.WriteFile(filepath.Join(d, SubmissionsFile), []byte(subs), 0o600))
    require.NoError(t, os.WriteFile(filepath.Join(d, DirectoryFile), []byte(dir), 0o600))
    return d
}

func TestFetchReadsBothFiles(t *testing.T) {
    d := writeSnapshot(t,
        `[{"id":"1","createdDateTime":"2024-02-01T08:00:00Z","createdBy":{"mail":"a@x.com"},"approvalStatus":"Approved"},
          {"id":"2","createdDateTime":"2024-02-02T08:00:00Z","author":{"LookupValue":"B"}}]`,
        `[{"id":"u1","displayName":"A","mail":"a@x.com","department":"X","accountEnabled":true},
          {"id":"u2","displayName":"Gone","accountEnabled":false}]`)
    src := New(d)
    src.Now = func() time.Time { return time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC) }

    snap, err := src.Fetch(context.Background())
    require.NoError(t, err)

    assert.NotEmpty(t, snap.ID)
    assert.Equal(t, 2024, snap.FetchedAt.Year())
    require.Len(t, snap.Submissions, 2)
    assert.Equal(t, domain.AuthorLookup, snap.Submissions[1].Author.Kind)
    require.Len(t, snap.Directory, 1)
    assert.Equal(t, "u1", snap.Directory[0].ID)
}

func TestFetchMissingFile(t *testing.T) {
    _, err := New(t.TempDir()).Fetch(context.Background())
    assert.Error(t, err)
}

func TestFetchBadJSON(t *testing.T) {
    d := writeSnapshot(t, `{"not":"a list"}`, `[]`)
    _, err := New(d).Fetch(context.Background())
    assert.ErrorContains(t, err, SubmissionsFile)
}
