package postgres

import (
    "context"
    "encoding/json"
    "fmt"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"

    "pmsdash/internal/domain"
)

// Fetch implements ports.SnapshotSource over the imported source tables.
func (db *DB) Fetch(ctx context.Context) (domain.Snapshot, error) {
    // One read-only transaction so both collections come from the same state.
    tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
    if err != nil {
        return domain.Snapshot{}, err
    }
    defer func() { _ = tx.Rollback(ctx) }()

    users, err := loadDirectory(ctx, tx)
    if err != nil {
        return domain.Snapshot{}, fmt.Errorf("load directory: %w", err)
    }
    subs, err := loadSubmissions(ctx, tx)
    if err != nil {
        return domain.Snapshot{}, fmt.Errorf("load submissions: %w", err)
    }
    return domain.Snapshot{
        ID:          uuid.NewString(),
        FetchedAt:   db.Now().UTC(),
        Submissions: subs,
        Directory:   users,
        Source:      domain.SourceDiagnostics{Source: "postgres"},
    }, nil
}

func loadDirectory(ctx context.Context, tx pgx.Tx) ([]domain.DirectoryUser, error) {
    rows, err := tx.Query(ctx, `
        SELECT id, display_name, COALESCE(mail, ''), COALESCE(user_principal_name, ''),
               COALESCE(department, ''), COALESCE(job_title, ''), account_enabled
        FROM directory_users
        WHERE account_enabled
        ORDER BY id
    `)
    if err != nil {
        return nil, err
    }
    return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DirectoryUser, error) {
        var u domain.DirectoryUser
        err := row.Scan(&u.ID, &u.DisplayName, &u.Mail, &u.UserPrincipalName, &u.Department, &u.JobTitle, &u.AccountEnabled)
        return u, err
    })
}

func loadSubmissions(ctx context.Context, tx pgx.Tx) ([]domain.Submission, error) {
    rows, err := tx.Query(ctx, `
        SELECT id, created_at, created_by, author, created_by_field, COALESCE(approval_status, '')
        FROM submissions
        ORDER BY id
    `)
    if err != nil {
        return nil, err
    }
    return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Submission, error) {
        var (
            s                          domain.Submission
            createdBy, author, byField []byte
        )
        if err := row.Scan(&s.ID, &s.CreatedAt, &createdBy, &author, &byField, &s.ApprovalState); err != nil {
            return s, err
        }
        if len(createdBy) > 0 {
            var ref domain.UserRef
            if err := json.Unmarshal(createdBy, &ref); err != nil {
                return s, fmt.Errorf("submission %s created_by: %w", s.ID, err)
            }
            s.CreatedBy = &ref
        }
        if len(author) > 0 {
            if err := json.Unmarshal(author, &s.Author); err != nil {
                return s, fmt.Errorf("submission %s author: %w", s.ID, err)
            }
        }
        if len(byField) > 0 {
            if err := json.Unmarshal(byField, &s.CreatedByField); err != nil {
                return s, fmt.Errorf("submission %s created_by_field: %w", s.ID, err)
            }
        }
        return s, nil
    })
}

// ReplaceDirectory swaps the stored directory for users in one transaction.
func (db *DB) ReplaceDirectory(ctx context.Context, users []domain.DirectoryUser) (n int64, err error) {
    tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
    if err != nil { return 0, err }
    defer func() {
        if err != nil { _ = tx.Rollback(ctx) } else { err = tx.Commit(ctx) }
    }()

    if _, err = tx.Exec(ctx, `DELETE FROM directory_users`); err != nil {
        return 0, err
    }
    rows := make([][]any, 0, len(users))
    for _, u := range users {
        rows = append(rows, []any{u.ID, u.DisplayName, nullable(u.Mail), nullable(u.UserPrincipalName),
            nullable(u.Department), nullable(u.JobTitle), u.AccountEnabled})
    }
    n, err = tx.CopyFrom(ctx, pgx.Identifier{"directory_users"},
        []string{"id", "display_name", "mail", "user_principal_name", "department", "job_title", "account_enabled"},
        pgx.CopyFromRows(rows))
    return n, err
}

// ReplaceSubmissions swaps the stored submissions for subs in one transaction.
func (db *DB) ReplaceSubmissions(ctx context.Context, subs []domain.Submission) (n int64, err error) {
    tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
    if err != nil { return 0, err }
    defer func() {
        if err != nil { _ = tx.Rollback(ctx) } else { err = tx.Commit(ctx) }
    }()

    if _, err = tx.Exec(ctx, `DELETE FROM submissions`); err != nil {
        return 0, err
    }
    rows := make([][]any, 0, len(subs))
    for _, s := range subs {
        createdBy, err := jsonOrNull(s.CreatedBy)
        if err != nil { return 0, err }
        author, err := jsonOrNull(s.Author)
        if err != nil { return 0, err }
        byField, err := jsonOrNull(s.CreatedByField)
        if err != nil { return 0, err }
        rows = append(rows, []any{s.ID, s.CreatedAt, createdBy, author, byField, nullable(s.ApprovalState)})
    }
    n, err = tx.CopyFrom(ctx, pgx.Identifier{"submissions"},
        []string{"id", "created_at", "created_by", "author", "created_by_field", "approval_status"},
        pgx.CopyFromRows(rows))
    return n, err
}

func nullable(s string) any {
    if s == "" {
        return nil
    }
    return s
}

// jsonOrNull encodes v for a jsonb column, mapping JSON null to SQL NULL.
func jsonOrNull(v any) (any, error) {
    b, err := json.Marshal(v)
    if err != nil {
        return nil, err
    }
    if string(b) == "null" {
        return nil, nil
    }
    return b, nil
}
