package migrations

import (
    "io/fs"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsHaveBothDirections(t *testing.T) {
    names, err := fs.Glob(files, "*.sql")
    require.NoError(t, err)
    require.NotEmpty(t, names)
    for _, n := range names {
        body, err := fs.ReadFile(files, n)
        require.NoError(t, err)
        assert.Contains(t, string(body), "-- +goose Up", n)
        assert.Contains(t, string(body), "-- +goose Down", n)
        assert.True(t, strings.HasPrefix(n, "0000"), n)
    }
}
