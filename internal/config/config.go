package config

import (
    "errors"
    "fmt"
    "os"
    "strings"
    "time"

    "gopkg.in/yaml.v3"
)

// Snapshot sources.
const (
    SourceFile     = "file"
    SourcePostgres = "postgres"
    SourceGraph    = "graph"
)

type Config struct {
    Env             string        `yaml:"env"`
    ListenAddr      string        `yaml:"listen_addr"`
    MaxConns        int           `yaml:"max_conns"`
    LogLevel        string        `yaml:"log_level"`
    Source          string        `yaml:"source"`
    DatabaseURL     string        `yaml:"database_url"`
    RunMigrations   bool          `yaml:"run_migrations"`
    SnapshotDir     string        `yaml:"snapshot_dir"`
    RefreshInterval time.Duration `yaml:"refresh_interval"`
    Graph           GraphConfig   `yaml:"graph"`
}

// GraphConfig points the graph source at the list site. The bearer token is
// obtained by whoever runs the service; no auth flow lives here.
type GraphConfig struct {
    BaseURL  string `yaml:"base_url"`
    Token    string `yaml:"token"`
    SitePath string `yaml:"site_path"`
    ListName string `yaml:"list_name"`
    ListID   string `yaml:"list_id"`
    PageSize int    `yaml:"page_size"`
}

// ErrNoConfigFile is returned (wrapped) when PMSDASH_CONFIG names a missing file.
var ErrNoConfigFile = errors.New("config file not found")

func defaults() Config {
    return Config{
        Env:             "development",
        ListenAddr:      ":8080",
        MaxConns:        256,
        LogLevel:        "info",
        Source:          SourceFile,
        RunMigrations:   true,
        SnapshotDir:     "testdata/snapshot",
        RefreshInterval: 5 * time.Minute,
        Graph: GraphConfig{
            BaseURL:  "https://graph.microsoft.com/v1.0",
            ListName: "Performance Contract List",
            PageSize: 999,
        },
    }
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// Load layers defaults, an optional YAML file named by PMSDASH_CONFIG, and
// environment variables. A missing config file is reported but not fatal; the
// returned Config is still usable.
func Load() (Config, error) {
    cfg := defaults()
    var warn error
    if path := os.Getenv("PMSDASH_CONFIG"); path != "" {
        if err := applyFile(&cfg, path); err != nil {
            if !errors.Is(err, ErrNoConfigFile) {
                return Config{}, err
            }
            warn = err
        }
    }
    if err := applyEnv(&cfg); err != nil {
        return Config{}, err
    }
    return cfg, warn
}

func applyFile(cfg *Config, path string) error {
    raw, err := os.ReadFile(path)
    if errors.Is(err, os.ErrNotExist) {
        return fmt.Errorf("%w: %s", ErrNoConfigFile, path)
    }
    if err != nil {
        return fmt.Errorf("read config: %w", err)
    }
    if err := yaml.Unmarshal(raw, cfg); err != nil {
        return fmt.Errorf("parse config %s: %w", path, err)
    }
    return nil
}

func applyEnv(cfg *Config) error {
    cfg.Env = getenv("APP_ENV", cfg.Env)
    cfg.ListenAddr = getenv("LISTEN_ADDR", cfg.ListenAddr)
    cfg.MaxConns = getenvInt("MAX_CONNS", cfg.MaxConns)
    cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
    cfg.Source = strings.ToLower(getenv("SOURCE", cfg.Source))
    cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
    cfg.SnapshotDir = getenv("SNAPSHOT_DIR", cfg.SnapshotDir)
    cfg.Graph.BaseURL = getenv("GRAPH_BASE_URL", cfg.Graph.BaseURL)
    cfg.Graph.Token = getenv("GRAPH_TOKEN", cfg.Graph.Token)
    cfg.Graph.SitePath = getenv("GRAPH_SITE_PATH", cfg.Graph.SitePath)
    cfg.Graph.ListName = getenv("GRAPH_LIST_NAME", cfg.Graph.ListName)
    cfg.Graph.ListID = getenv("GRAPH_LIST_ID", cfg.Graph.ListID)
    cfg.Graph.PageSize = getenvInt("GRAPH_PAGE_SIZE", cfg.Graph.PageSize)
    if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
        cfg.RunMigrations = v == "1" || strings.EqualFold(v, "true")
    }
    if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("REFRESH_INTERVAL: %w", err)
        }
        cfg.RefreshInterval = d
    }
    return nil
}

func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var out int
        _, err := fmt.Sscanf(v, "%d", &out)
        if err == nil {
            return out
        }
    }
    return def
}

// Validate checks that the selected source has what it needs.
func (c Config) Validate() error {
    if c.RefreshInterval <= 0 {
        return errors.New("refresh interval must be positive")
    }
    switch c.Source {
    case SourceFile:
        if c.SnapshotDir == "" {
            return errors.New("SNAPSHOT_DIR is required for the file source")
        }
    case SourcePostgres:
        if c.DatabaseURL == "" {
            return errors.New("DATABASE_URL is required for the postgres source")
        }
    case SourceGraph:
        if c.Graph.Token == "" || c.Graph.SitePath == "" {
            return errors.New("GRAPH_TOKEN and GRAPH_SITE_PATH are required for the graph source")
        }
    default:
        return fmt.Errorf("unknown source %q", c.Source)
    }
    return nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool { return c.Env == "production" }
