package logging

import (
    "fmt"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New builds the service logger. Production uses JSON output, everything else
// the console encoder.
func New(env, level string) (*zap.Logger, error) {
    var cfg zap.Config
    if env == "production" {
        cfg = zap.NewProductionConfig()
    } else {
        cfg = zap.NewDevelopmentConfig()
    }
    lvl, err := zapcore.ParseLevel(level)
    if err != nil {
        return nil, fmt.Errorf("log level: %w", err)
    }
    cfg.Level = zap.NewAtomicLevelAt(lvl)
    return cfg.Build()
}

// Middleware logs one line per request.
func Middleware(log *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            log.Info("http request",
                zap.String("method", r.Method),
                zap.String("path", r.URL.Path),
                zap.Int("status", ww.Status()),
                zap.Int("bytes", ww.BytesWritten()),
                zap.Duration("elapsed", time.Since(start)),
                zap.String("request_id", middleware.GetReqID(r.Context())),
            )
        })
    }
}

// GooseLogger adapts zap to the goose logger interface.
type GooseLogger struct{ L *zap.SugaredLogger }

func (g GooseLogger) Printf(format string, v ...any) { g.L.Infof(format, v...) }
func (g GooseLogger) Fatalf(format string, v ...any) { g.L.Fatalf(format, v...) }
