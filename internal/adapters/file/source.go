package file

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/google/uuid"

    "pmsdash/internal/domain"
)

const (
    SubmissionsFile = "submissions.json"
    DirectoryFile   = "directory.json"
)

// Source reads a snapshot from two JSON files in Dir. It is used for local
// runs, the report command and as the import format for postgres.
type Source struct {
    Dir string
    Now func() time.Time
}

func New(dir string) *Source { return &Source{Dir: dir, Now: time.Now} }

func (s *Source) Fetch(ctx context.Context) (domain.Snapshot, error) {
    if err := ctx.Err(); err != nil {
        return domain.Snapshot{}, err
    }
    var subs []domain.Submission
    if err := readJSON(filepath.Join(s.Dir, SubmissionsFile), &subs); err != nil {
        return domain.Snapshot{}, err
    }
    var users []domain.DirectoryUser
    if err := readJSON(filepath.Join(s.Dir, DirectoryFile), &users); err != nil {
        return domain.Snapshot{}, err
    }
    return domain.Snapshot{
        ID:          uuid.NewString(),
        FetchedAt:   s.Now().UTC(),
        Submissions: subs,
        Directory:   EnabledOnly(users),
        Source:      domain.SourceDiagnostics{Source: "file:" + s.Dir},
    }, nil
}

// EnabledOnly drops disabled accounts.
func EnabledOnly(users []domain.DirectoryUser) []domain.DirectoryUser {
    out := make([]domain.DirectoryUser, 0, len(users))
    for _, u := range users {
        if u.AccountEnabled {
            out = append(out, u)
        }
    }
    return out
}

func readJSON(path string, dst any) error {
    f, err := os.Open(path)
    if err != nil {
        return fmt.Errorf("open %s: %w", path, err)
    }
    defer f.Close()
    if err := json.NewDecoder(f).Decode(dst); err != nil {
        return fmt.Errorf("decode %s: %w", path, err)
    }
    return nil
}
