package httpadapter

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"

    "pmsdash/api"
    "pmsdash/internal/engine"
    "pmsdash/internal/logging"
    "pmsdash/internal/ports"
    "pmsdash/internal/services/dashboard"
)

// Info is served on /api/info.
type Info = api.Info

// Server implements api.StrictServerInterface over the dashboard service.
type Server struct {
    dashboard ports.Dashboard
    refresher ports.Refresher
    info      Info
    log       *zap.Logger
    now       func() time.Time
}

var _ api.StrictServerInterface = (*Server)(nil)

func New(d ports.Dashboard, r ports.Refresher, info Info, log *zap.Logger) *Server {
    return &Server{dashboard: d, refresher: r, info: info, log: log, now: time.Now}
}

// Routes returns a chi.Router with all handlers mounted.
func (s *Server) Routes() chi.Router {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(logging.Middleware(s.log))
    r.Use(middleware.Recoverer)

    handler := api.NewStrictHandlerWithOptions(s, nil, api.StrictHTTPServerOptions{
        RequestErrorHandlerFunc:  s.requestError,
        ResponseErrorHandlerFunc: s.responseError,
    })
    api.HandlerWithOptions(handler, api.ChiServerOptions{
        BaseRouter:       r,
        ErrorHandlerFunc: s.requestError,
    })
    return r
}

func (s *Server) GetHealthz(ctx context.Context, _ api.GetHealthzRequestObject) (api.GetHealthzResponseObject, error) {
    return api.GetHealthz200JSONResponse{Status: "healthy", Timestamp: s.now().UTC().Truncate(time.Second)}, nil
}

func (s *Server) GetInfo(ctx context.Context, _ api.GetInfoRequestObject) (api.GetInfoResponseObject, error) {
    return api.GetInfo200JSONResponse(s.info), nil
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}

func (s *Server) GetDashboard(ctx context.Context, req api.GetDashboardRequestObject) (api.GetDashboardResponseObject, error) {
    p := req.Params
    status, err := engine.ParseStatusFilter(deref(p.Status))
    if err != nil {
        return api.GetDashboard400JSONResponse{Error: err.Error()}, nil
    }
    sortKey, err := engine.ParseSortKey(deref(p.Sort))
    if err != nil {
        return api.GetDashboard400JSONResponse{Error: err.Error()}, nil
    }
    view, err := s.dashboard.Dashboard(ctx, ports.DashboardQuery{
        Department: deref(p.Department),
        Roster:     engine.RosterQuery{Search: deref(p.Search), Status: status, Sort: sortKey},
    })
    switch {
    case err == nil:
        return api.GetDashboard200JSONResponse(view), nil
    case errors.Is(err, engine.ErrInvalidQuery):
        return api.GetDashboard400JSONResponse{Error: err.Error()}, nil
    case errors.Is(err, dashboard.ErrUnknownDepartment):
        return api.GetDashboard404JSONResponse{Error: err.Error()}, nil
    case errors.Is(err, dashboard.ErrNoSnapshot):
        return api.GetDashboard503JSONResponse{Error: err.Error()}, nil
    }
    return nil, err
}

func (s *Server) GetDepartments(ctx context.Context, _ api.GetDepartmentsRequestObject) (api.GetDepartmentsResponseObject, error) {
    stats, err := s.dashboard.Departments(ctx)
    if errors.Is(err, dashboard.ErrNoSnapshot) {
        return api.GetDepartments503JSONResponse{Error: err.Error()}, nil
    }
    if err != nil {
        return nil, err
    }
    return api.GetDepartments200JSONResponse(stats), nil
}

func (s *Server) GetDiagnostics(ctx context.Context, _ api.GetDiagnosticsRequestObject) (api.GetDiagnosticsResponseObject, error) {
    d, err := s.dashboard.Diagnostics(ctx)
    if errors.Is(err, dashboard.ErrNoSnapshot) {
        return api.GetDiagnostics503JSONResponse{Error: err.Error()}, nil
    }
    if err != nil {
        return nil, err
    }
    return api.GetDiagnostics200JSONResponse(d), nil
}

func (s *Server) PostRefresh(ctx context.Context, _ api.PostRefreshRequestObject) (api.PostRefreshResponseObject, error) {
    snap, err := s.refresher.RefreshOnce(ctx)
    if err != nil {
        return api.PostRefresh502JSONResponse{Error: err.Error()}, nil
    }
    return api.PostRefresh200JSONResponse{
        SnapshotId:     snap.ID,
        FetchedAt:      snap.FetchedAt,
        Submissions:    len(snap.Submissions),
        DirectoryUsers: len(snap.Directory),
    }, nil
}

// requestError answers parameters the generated wrapper could not bind.
func (s *Server) requestError(w http.ResponseWriter, _ *http.Request, err error) {
    writeJSON(w, http.StatusBadRequest, api.Error{Error: err.Error()})
}

// responseError answers handler errors that have no declared response.
func (s *Server) responseError(w http.ResponseWriter, _ *http.Request, err error) {
    s.log.Error("request failed", zap.Error(err))
    writeJSON(w, http.StatusInternalServerError, api.Error{Error: "internal server error"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    _ = json.NewEncoder(w).Encode(v)
}
