package main

import (
    "encoding/json"
    "fmt"
    "io"
    "strings"
    "text/tabwriter"
    "time"

    "github.com/spf13/cobra"

    "pmsdash/internal/adapters/file"
    pg "pmsdash/internal/adapters/postgres"
    "pmsdash/internal/config"
    "pmsdash/internal/domain"
    "pmsdash/internal/engine"
    "pmsdash/internal/ports"
)

type reportOptions struct {
    dir         string
    databaseURL string
    department  string
    search      string
    status      string
    sort        string
    asJSON      bool
}

func newReportCmd() *cobra.Command {
    var opts reportOptions

    cmd := &cobra.Command{
        Use:   "report",
        Short: "Reconcile a snapshot and print completion figures",
        RunE: func(cmd *cobra.Command, args []string) error {
            return runReport(cmd, opts)
        },
    }

    cmd.Flags().StringVar(&opts.dir, "dir", "", "Snapshot directory with submissions.json and directory.json")
    cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "Read the snapshot from Postgres instead of a directory")
    cmd.Flags().StringVar(&opts.department, "department", domain.AllDepartments, "Department to report on")
    cmd.Flags().StringVar(&opts.search, "search", "", "Only list employees whose name or email contains this text")
    cmd.Flags().StringVar(&opts.status, "status", "all", "Status filter: all, completed, in-progress, not-started")
    cmd.Flags().StringVar(&opts.sort, "sort", "name", "Roster order: name, status, department, recent")
    cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the view as JSON")
    cmd.MarkFlagsMutuallyExclusive("dir", "database-url")

    return cmd
}

func runReport(cmd *cobra.Command, opts reportOptions) error {
    status, err := engine.ParseStatusFilter(opts.status)
    if err != nil {
        return err
    }
    sortKey, err := engine.ParseSortKey(opts.sort)
    if err != nil {
        return err
    }

    source, closeFn, err := openSource(cmd, opts.dir, opts.databaseURL)
    if err != nil {
        return err
    }
    defer closeFn()

    snap, err := source.Fetch(cmd.Context())
    if err != nil {
        return fmt.Errorf("load snapshot: %w", err)
    }
    res := engine.Reconcile(snap.Submissions, snap.Directory)
    if !engine.IsAllDepartments(opts.department) && !res.Directory.HasDepartment(opts.department) {
        return fmt.Errorf("unknown department %q (known: %s)", opts.department, strings.Join(res.Directory.Departments(), ", "))
    }
    view := res.View(opts.department, engine.RosterQuery{Search: opts.search, Status: status, Sort: sortKey})

    out := cmd.OutOrStdout()
    if opts.asJSON {
        enc := json.NewEncoder(out)
        enc.SetIndent("", "  ")
        return enc.Encode(view)
    }
    return renderReport(out, view, res.Diagnostics)
}

// openSource picks Postgres when a URL is given (flag or DATABASE_URL) and
// the snapshot directory otherwise.
func openSource(cmd *cobra.Command, dir, databaseURL string) (ports.SnapshotSource, func(), error) {
    cfg, warn := config.Load()
    if warn != nil {
        fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warn)
    }
    if databaseURL == "" && dir == "" {
        databaseURL = cfg.DatabaseURL
    }
    if databaseURL != "" {
        db, err := pg.Connect(cmd.Context(), databaseURL)
        if err != nil {
            return nil, nil, fmt.Errorf("db connect: %w", err)
        }
        return db, db.Close, nil
    }
    if dir == "" {
        dir = cfg.SnapshotDir
    }
    return file.New(dir), func() {}, nil
}

func renderReport(w io.Writer, view engine.View, diag engine.Diagnostics) error {
    st := view.Stat
    fmt.Fprintf(w, "%s: %d employees, %.1f%% complete\n\n", view.Department, st.TotalEmployees, st.CompletionRate)

    tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
    for _, p := range view.Series {
        fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", p.Label, p.Count, p.Percentage)
    }
    if err := tw.Flush(); err != nil {
        return err
    }

    fmt.Fprintln(w)
    tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
    fmt.Fprintln(tw, "NAME\tEMAIL\tDEPARTMENT\tSTATUS\tRECORDS\tLAST SUBMITTED")
    for _, e := range view.Roster {
        last := "-"
        if e.LastSubmittedAt != nil {
            last = e.LastSubmittedAt.Format(time.DateOnly)
        }
        fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", e.Name, e.Email, e.Department, e.Status, e.SubmissionCount, last)
    }
    if err := tw.Flush(); err != nil {
        return err
    }

    if diag.Unresolved > 0 || len(diag.Skipped) > 0 || len(diag.Orphaned) > 0 {
        fmt.Fprintf(w, "\n%d unresolved submissions, %d skipped submissions, %d orphaned identities\n", diag.Unresolved, len(diag.Skipped), len(diag.Orphaned))
    }
    return nil
}
