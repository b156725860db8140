package main

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"
    "golang.org/x/net/netutil"

    "pmsdash/internal/adapters/file"
    "pmsdash/internal/adapters/graph"
    httpadapter "pmsdash/internal/adapters/http"
    "pmsdash/internal/adapters/memory"
    pg "pmsdash/internal/adapters/postgres"
    "pmsdash/internal/config"
    "pmsdash/internal/logging"
    "pmsdash/internal/migrations"
    ports "pmsdash/internal/ports"
    dashsvc "pmsdash/internal/services/dashboard"
    "pmsdash/internal/workers/refresher"
)

var version = "dev"

func main() {
    cfg, warn := config.Load()
    if warn != nil && !errors.Is(warn, config.ErrNoConfigFile) {
        log.Fatalf("config error: %v", warn)
    }
    if err := cfg.Validate(); err != nil {
        log.Fatalf("config error: %v", err)
    }
    logger, err := logging.New(cfg.Env, cfg.LogLevel)
    if err != nil {
        log.Fatalf("logger: %v", err)
    }
    defer logger.Sync()
    if warn != nil {
        logger.Warn("config", zap.Error(warn))
    }

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    var (
        source ports.SnapshotSource
        runs   ports.RunLog = memory.NopRunLog{}
    )
    switch cfg.Source {
    case config.SourceFile:
        source = file.New(cfg.SnapshotDir)
    case config.SourceGraph:
        source = graph.New(graph.Config{
            BaseURL:  cfg.Graph.BaseURL,
            Token:    cfg.Graph.Token,
            SitePath: cfg.Graph.SitePath,
            ListName: cfg.Graph.ListName,
            ListID:   cfg.Graph.ListID,
            PageSize: cfg.Graph.PageSize,
        }, &http.Client{Timeout: 60 * time.Second})
    case config.SourcePostgres:
        db, err := pg.Connect(ctx, cfg.DatabaseURL)
        if err != nil {
            logger.Fatal("db connect error", zap.Error(err))
        }
        defer db.Close()
        if cfg.RunMigrations {
            if err := migrations.Up(ctx, db.SQL(), logging.GooseLogger{L: logger.Sugar()}); err != nil {
                logger.Fatal("migrations", zap.Error(err))
            }
        }
        source, runs = db, db
    }

    store := memory.NewStore()
    runner := &refresher.Runner{
        Source:     source,
        Store:      store,
        Runs:       runs,
        Log:        logger.Named("refresher"),
        SourceName: cfg.Source,
    }
    go runner.Run(ctx, cfg.RefreshInterval)

    srv := httpadapter.New(dashsvc.New(store), runner, httpadapter.Info{
        Service:     "pmsdash",
        Environment: cfg.Env,
        Version:     version,
        Source:      cfg.Source,
    }, logger.Named("http"))
    r := chi.NewRouter()
    r.Mount("/", srv.Routes())

    ln, err := net.Listen("tcp", cfg.ListenAddr)
    if err != nil {
        logger.Fatal("listen", zap.Error(err))
    }
    if cfg.MaxConns > 0 {
        ln = netutil.LimitListener(ln, cfg.MaxConns)
    }
    httpSrv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

    errCh := make(chan error, 1)
    go func() { errCh <- httpSrv.Serve(ln) }()
    logger.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("source", cfg.Source))

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
    select {
    case sig := <-sigCh:
        logger.Info("shutting down", zap.String("signal", sig.String()))
        cancel()
        shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
        defer done()
        if err := httpSrv.Shutdown(shutdownCtx); err != nil {
            logger.Error("shutdown", zap.Error(err))
        }
    case err := <-errCh:
        if !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("server error", zap.Error(fmt.Errorf("serve: %w", err)))
        }
    }
}
