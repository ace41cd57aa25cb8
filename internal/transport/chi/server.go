package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/query"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	modeluc "github.com/kailas-cloud/jobmatch/internal/usecase/model"
)

const (
	msgEmptyQuery = "Please provide at least one search criterion."
	msgNoResults  = "No job recommendations found. Try different search criteria."

	maxBodyBytes = 64 << 10
)

// Matcher answers job searches.
type Matcher interface {
	Search(ctx context.Context, q query.Query) (matchuc.Result, error)
}

// ModelManager describes and reloads the serving model.
type ModelManager interface {
	Info() (modeluc.Info, error)
	Reload(ctx context.Context) (modeluc.Info, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the job matching HTTP API.
type Server struct {
	matcher       Matcher
	models        ModelManager
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(matcher Matcher, models ModelManager, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		matcher: matcher,
		models:  models,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorCodeEmptyQuery, msgEmptyQuery),
		sentinelHandler(domain.ErrNoResults, http.StatusNotFound, ErrorCodeNoResults, msgNoResults),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeBadRequest, ""),
		sentinelHandler(domain.ErrModelNotLoaded, http.StatusServiceUnavailable, ErrorCodeModelNotLoaded, ""),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/results", s.Results)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchJSON)
		r.Get("/search", s.SearchQuery)
		r.Get("/model", s.GetModel)
		r.Post("/admin/reload", s.ReloadModel)
	})
}

// SearchJSON handles POST /api/v1/search.
func (s *Server) SearchJSON(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.New(query.Fragments{
		Skills:            req.Skills,
		JobRole:           req.JobRole,
		CompanyPreference: req.CompanyPreference,
		Qualification:     req.Qualification,
	}, derefInt(req.TopK), derefFloat(req.MinScore))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.search(w, r, q)
}

// SearchQuery handles GET /api/v1/search.
func (s *Server) SearchQuery(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	q, err := query.New(query.Fragments{
		Skills:            derefString(params.Skills),
		JobRole:           derefString(params.JobRole),
		CompanyPreference: derefString(params.CompanyPreference),
		Qualification:     derefString(params.Qualification),
	}, derefInt(params.TopK), derefFloat(params.MinScore))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.search(w, r, q)
}

// Results handles POST /results, the form submitted by the search page.
func (s *Server) Results(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid form: "+err.Error())
		return
	}

	q, err := query.New(query.Fragments{
		Skills:            r.PostForm.Get("skills"),
		JobRole:           r.PostForm.Get("job_role"),
		CompanyPreference: r.PostForm.Get("company_preference"),
		Qualification:     r.PostForm.Get("qualification"),
	}, 0, 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.search(w, r, q)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, q query.Query) {
	res, err := s.matcher.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]MatchItem, len(res.Matches))
	for i := range res.Matches {
		m := &res.Matches[i]
		rec := m.Record()
		items[i] = MatchItem{
			Rank:   m.Rank(),
			Score:  m.Score(),
			Row:    rec.Index(),
			Record: rec.Fields(),
		}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items: items,
		Total: len(items),
		TopK:  res.TopK,
		Model: res.Fingerprint,
	})
}

// GetModel handles GET /api/v1/model.
func (s *Server) GetModel(w http.ResponseWriter, _ *http.Request) {
	info, err := s.models.Info()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modelToResponse(info))
}

// ReloadModel handles POST /api/v1/admin/reload.
func (s *Server) ReloadModel(w http.ResponseWriter, r *http.Request) {
	info, err := s.models.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modelToResponse(info))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindSearchParams decodes the form-style query string of GET /api/v1/search.
func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	qs := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"skills", &p.Skills},
		{"job_role", &p.JobRole},
		{"company_preference", &p.CompanyPreference},
		{"qualification", &p.Qualification},
		{"top_k", &p.TopK},
		{"min_score", &p.MinScore},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, qs, b.dest); err != nil {
			return SearchParams{}, err
		}
	}
	return p, nil
}

func modelToResponse(info modeluc.Info) ModelResponse {
	return ModelResponse{
		Fingerprint:    info.Fingerprint,
		Documents:      info.Documents,
		Terms:          info.Terms,
		Fields:         info.Fields,
		CombinedColumn: info.CombinedColumn,
		LoadedAt:       info.LoadedAt.UTC(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty msg exposes the error text, which is safe for user-facing sentinels.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		text := msg
		if text == "" {
			text = err.Error()
		}
		writeError(w, status, code, text)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
