package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/domain/query"
	"github.com/kailas-cloud/jobmatch/internal/logger"
)

// Result is a ranked answer to a query.
type Result struct {
	Matches     []dommatch.Match
	TopK        int
	Fingerprint string
}

// Metrics are the optional collectors the service reports to.
type Metrics struct {
	Queries  *prometheus.CounterVec // label "status"
	Duration prometheus.Observer
}

// Service answers job queries against the serving model.
type Service struct {
	models      ModelSource
	scorer      Scorer
	defaultTopK int
	maxTopK     int
	metrics     Metrics
}

// New creates a match service. A nil scorer uses TFIDFScorer.
func New(models ModelSource, scorer Scorer, cfg domain.MatchConfig, m Metrics) *Service {
	if scorer == nil {
		scorer = TFIDFScorer{}
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = domain.DefaultMatchConfig().DefaultTopK
	}
	if cfg.MaxTopK < cfg.DefaultTopK {
		cfg.MaxTopK = cfg.DefaultTopK
	}
	return &Service{
		models:      models,
		scorer:      scorer,
		defaultTopK: cfg.DefaultTopK,
		maxTopK:     cfg.MaxTopK,
		metrics:     m,
	}
}

// Search ranks every job record by cosine similarity to the query and
// returns the top k, best first.
func (s *Service) Search(ctx context.Context, q query.Query) (Result, error) {
	start := time.Now()
	res, err := s.search(ctx, q)
	s.observe(start, err)
	return res, err
}

func (s *Service) search(ctx context.Context, q query.Query) (Result, error) {
	if q.IsEmpty() {
		return Result{}, domain.ErrEmptyQuery
	}

	model, err := s.models.Current()
	if err != nil {
		return Result{}, fmt.Errorf("current model: %w", err)
	}
	if model.NumDocs() == 0 {
		return Result{}, domain.ErrNoResults
	}

	k := s.topK(ctx, q.TopK())
	hits, err := s.scorer.Score(ctx, model, q.Text(), k, q.MinScore())
	if err != nil {
		return Result{}, fmt.Errorf("score: %w", err)
	}
	if len(hits) == 0 {
		return Result{}, domain.ErrNoResults
	}

	corpus := model.Corpus()
	matches := make([]dommatch.Match, len(hits))
	for i, h := range hits {
		if h.Row < 0 || h.Row >= corpus.Len() {
			return Result{}, fmt.Errorf("%w: hit row %d outside corpus of %d", domain.ErrArtifactMismatch, h.Row, corpus.Len())
		}
		matches[i] = dommatch.New(corpus.Record(h.Row), h.Score, i+1)
	}

	return Result{Matches: matches, TopK: k, Fingerprint: model.Fingerprint()}, nil
}

// topK resolves the requested count: 0 means default, above max is capped.
func (s *Service) topK(ctx context.Context, requested int) int {
	switch {
	case requested <= 0:
		return s.defaultTopK
	case requested > s.maxTopK:
		logger.FromContext(ctx).Debug("Capping top_k",
			zap.Int("requested", requested),
			zap.Int("max", s.maxTopK),
		)
		return s.maxTopK
	default:
		return requested
	}
}

func (s *Service) observe(start time.Time, err error) {
	if s.metrics.Duration != nil {
		s.metrics.Duration.Observe(time.Since(start).Seconds())
	}
	if s.metrics.Queries != nil {
		s.metrics.Queries.WithLabelValues(outcome(err)).Inc()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, domain.ErrNoResults):
		return "no_results"
	case errors.Is(err, domain.ErrModelNotLoaded):
		return "not_loaded"
	default:
		return "error"
	}
}
