package main

import (
    "context"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
    root := &cobra.Command{
        Use:           "pmsctl",
        Short:         "Operate the performance agreement dashboard from the command line",
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.AddCommand(newReportCmd(), newImportCmd(), newMigrateCmd())
    return root
}

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    if err := newRootCmd().ExecuteContext(ctx); err != nil {
        fmt.Fprintln(os.Stderr, "error:", err)
        os.Exit(1)
    }
}
