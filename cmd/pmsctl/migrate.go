package main

import (
    "errors"
    "fmt"

    "github.com/spf13/cobra"
    "go.uber.org/zap"

    pg "pmsdash/internal/adapters/postgres"
    "pmsdash/internal/config"
    "pmsdash/internal/logging"
    "pmsdash/internal/migrations"
)

func newMigrateCmd() *cobra.Command {
    var databaseURL string

    cmd := &cobra.Command{
        Use:   "migrate",
        Short: "Apply pending database migrations",
        RunE: func(cmd *cobra.Command, args []string) error {
            if databaseURL == "" {
                cfg, _ := config.Load()
                databaseURL = cfg.DatabaseURL
            }
            if databaseURL == "" {
                return errors.New("--database-url or DATABASE_URL is required")
            }
            db, err := pg.Connect(cmd.Context(), databaseURL)
            if err != nil {
                return fmt.Errorf("db connect: %w", err)
            }
            defer db.Close()
            return migrations.Up(cmd.Context(), db.SQL(), logging.GooseLogger{L: cliLogger(cmd)})
        },
    }
    cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default: DATABASE_URL)")
    return cmd
}

// cliLogger is a development logger; commands fall back to a no-op one if it
// cannot be built.
func cliLogger(cmd *cobra.Command) *zap.SugaredLogger {
    log, err := logging.New("development", "info")
    if err != nil {
        fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
        return zap.NewNop().Sugar()
    }
    return log.Sugar()
}
