package config

import (
    "errors"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
    t.Setenv("PMSDASH_CONFIG", "")
    t.Setenv("SOURCE", "")
    t.Setenv("LISTEN_ADDR", "")
    t.Setenv("REFRESH_INTERVAL", "")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, ":8080", cfg.ListenAddr)
    assert.Equal(t, SourceFile, cfg.Source)
    assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
    assert.NoError(t, cfg.Validate())
}

func TestLoadLayersFileThenEnv(t *testing.T) {
    path := filepath.Join(t.TempDir(), "pmsdash.yaml")
    body := "listen_addr: \":9000\"\nsource: graph\nrefresh_interval: 90s\ngraph:\n  site_path: contoso.sharepoint.com:/sites/HR\n  token: from-file\n"
    require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
    t.Setenv("PMSDASH_CONFIG", path)
    t.Setenv("LISTEN_ADDR", "")
    t.Setenv("SOURCE", "")
    t.Setenv("REFRESH_INTERVAL", "")
    t.Setenv("GRAPH_SITE_PATH", "")
    t.Setenv("GRAPH_TOKEN", "from-env")
    t.Setenv("MAX_CONNS", "12")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, ":9000", cfg.ListenAddr)
    assert.Equal(t, SourceGraph, cfg.Source)
    assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
    assert.Equal(t, "from-env", cfg.Graph.Token)
    assert.Equal(t, "contoso.sharepoint.com:/sites/HR", cfg.Graph.SitePath)
    assert.Equal(t, 12, cfg.MaxConns)
    assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileIsWarning(t *testing.T) {
    t.Setenv("PMSDASH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

    cfg, err := Load()
    assert.True(t, errors.Is(err, ErrNoConfigFile))
    assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadRejectsBadInterval(t *testing.T) {
    t.Setenv("PMSDASH_CONFIG", "")
    t.Setenv("REFRESH_INTERVAL", "soon")

    _, err := Load()
    assert.Error(t, err)
}

func TestValidatePerSource(t *testing.T) {
    cfg := defaults()
    cfg.Source = SourcePostgres
    assert.Error(t, cfg.Validate())
    cfg.DatabaseURL = "postgres://localhost/pms"
    assert.NoError(t, cfg.Validate())

    cfg.Source = SourceGraph
    assert.Error(t, cfg.Validate())

    cfg.Source = "ftp"
    assert.Error(t, cfg.Validate())
}
