package logging

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"
    "go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
    _, err := New("development", "loud")
    assert.Error(t, err)

    log, err := New("production", "warn")
    require.NoError(t, err)
    assert.False(t, log.Core().Enabled(zap.InfoLevel))
}

func TestMiddlewareLogsStatus(t *testing.T) {
    core, logs := observer.New(zap.InfoLevel)
    h := Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusTeapot)
    }))

    h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/info", nil))

    require.Equal(t, 1, logs.Len())
    fields := logs.All()[0].ContextMap()
    assert.Equal(t, int64(http.StatusTeapot), fields["status"])
    assert.Equal(t, "/api/info", fields["path"])
}
