package main

import (
    "errors"
    "fmt"

    "github.com/spf13/cobra"

    "pmsdash/internal/adapters/file"
    pg "pmsdash/internal/adapters/postgres"
    "pmsdash/internal/config"
    "pmsdash/internal/domain"
    "pmsdash/internal/engine"
    "pmsdash/internal/logging"
    "pmsdash/internal/migrations"
    "pmsdash/internal/ports"
)

type importOptions struct {
    dir         string
    databaseURL string
    apply       bool
    migrate     bool
}

func newImportCmd() *cobra.Command {
    var opts importOptions

    cmd := &cobra.Command{
        Use:   "import",
        Short: "Load a snapshot directory into Postgres",
        RunE: func(cmd *cobra.Command, args []string) error {
            return runImport(cmd, opts)
        },
    }

    cmd.Flags().StringVar(&opts.dir, "dir", "", "Snapshot directory with submissions.json and directory.json (required)")
    cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "Postgres URL (default: DATABASE_URL)")
    cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the database (default is dry-run)")
    cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "Apply pending migrations before importing")
    _ = cmd.MarkFlagRequired("dir")

    return cmd
}

func runImport(cmd *cobra.Command, opts importOptions) error {
    ctx := cmd.Context()
    out := cmd.OutOrStdout()

    snap, err := file.New(opts.dir).Fetch(ctx)
    if err != nil {
        return fmt.Errorf("load snapshot: %w", err)
    }
    diag := engine.Reconcile(snap.Submissions, snap.Directory).Diagnostics
    fmt.Fprintf(out, "snapshot %s: %d submissions, %d enabled directory users, %d attributed, %d skipped\n",
        opts.dir, len(snap.Submissions), len(snap.Directory), diag.Attributed, len(diag.Skipped))

    if !opts.apply {
        fmt.Fprintln(out, "dry-run: pass --apply to write to the database")
        return nil
    }

    url := opts.databaseURL
    if url == "" {
        cfg, _ := config.Load()
        url = cfg.DatabaseURL
    }
    if url == "" {
        return errors.New("--database-url or DATABASE_URL is required with --apply")
    }
    db, err := pg.Connect(ctx, url)
    if err != nil {
        return fmt.Errorf("db connect: %w", err)
    }
    defer db.Close()

    if opts.migrate {
        if err := migrations.Up(ctx, db.SQL(), logging.GooseLogger{L: cliLogger(cmd)}); err != nil {
            return err
        }
    }
    return importSnapshot(cmd, db, snap.Directory, snap.Submissions)
}

func importSnapshot(cmd *cobra.Command, repo ports.ImportRepository, users []domain.DirectoryUser, subs []domain.Submission) error {
    ctx := cmd.Context()
    nUsers, err := repo.ReplaceDirectory(ctx, users)
    if err != nil {
        return fmt.Errorf("import directory: %w", err)
    }
    nSubs, err := repo.ReplaceSubmissions(ctx, subs)
    if err != nil {
        return fmt.Errorf("import submissions: %w", err)
    }
    fmt.Fprintf(cmd.OutOrStdout(), "imported %d directory users and %d submissions\n", nUsers, nSubs)
    return nil
}
