package jobmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/db"
	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/query"
	"github.com/kailas-cloud/jobmatch/internal/repository/matchcache"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	modeluc "github.com/kailas-cloud/jobmatch/internal/usecase/model"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 10 * time.Minute
)

// Internal interfaces, replaced in tests.
type matchUseCase interface {
	Search(ctx context.Context, q query.Query) (matchuc.Result, error)
}

type modelUseCase interface {
	Reload(ctx context.Context) (modeluc.Info, error)
	Info() (modeluc.Info, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client answers job queries against a fitted model. It is safe for
// concurrent use.
type Client struct {
	store     db.Store // nil without a result cache
	matchSvc  matchUseCase
	modelSvc  modelUseCase
	healthSvc healthUseCase
	obs       *observer
}

// Open loads the artifacts in dir and returns a ready client.
// The provided context bounds artifact downloads and the cache readiness check.
func Open(ctx context.Context, dir string, opts ...Option) (*Client, error) {
	defaults := domain.DefaultMatchConfig()
	cfg := &clientConfig{
		defaultTopK: defaults.DefaultTopK,
		maxTopK:     defaults.MaxTopK,
		cacheTTL:    defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.addrs) > 0 {
		store, err = createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	c, err := wireClient(dir, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	start := time.Now()
	_, err = c.modelSvc.Reload(ctx)
	obs.observe("open", start, err)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("jobmatch: %w", err)
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("jobmatch: unknown cache driver %q", cfg.driver)
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("jobmatch: create %s store: %w", cfg.driver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("jobmatch: cache not ready: %w", err)
	}
	return s, nil
}

func wireClient(dir string, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	if cfg.defaultTopK <= 0 {
		return nil, fmt.Errorf("jobmatch: default top_k must be positive, got %d", cfg.defaultTopK)
	}
	if cfg.maxTopK < cfg.defaultTopK {
		return nil, fmt.Errorf("jobmatch: max top_k %d is below default %d", cfg.maxTopK, cfg.defaultTopK)
	}

	var fetcher *artifact.Fetcher
	remote := artifact.Remote{
		VectorizerURL: cfg.vectorizerURL,
		MatrixURL:     cfg.matrixURL,
		DatasetURL:    cfg.datasetURL,
	}
	if remote != (artifact.Remote{}) {
		fetcher = artifact.NewFetcher(nil, nil, obs.log())
	}
	provisioner := artifact.NewProvisioner(artifact.DefaultLayout(dir), remote, fetcher)

	holder := artifact.NewHolder(nil)
	modelSvc := modeluc.New(provisioner, holder, obs.modelMetrics(), obs.log())

	var scorer matchuc.Scorer = matchuc.TFIDFScorer{}
	var pinger healthuc.CachePinger
	if store != nil {
		scorer = matchcache.New(scorer, store, cfg.cacheTTL, obs.cacheCounter(), obs.log())
		pinger = store
	}

	matchSvc := matchuc.New(holder, scorer, domain.MatchConfig{
		DefaultTopK: cfg.defaultTopK,
		MaxTopK:     cfg.maxTopK,
	}, matchuc.Metrics{})

	return &Client{
		store:     store,
		matchSvc:  matchSvc,
		modelSvc:  modelSvc,
		healthSvc: healthuc.New(holder, pinger),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search returns the postings most similar to the query, best first.
// It fails with ErrEmptyQuery when no fragment carries text and with
// ErrNoResults when nothing qualifies.
func (c *Client) Search(ctx context.Context, q Query) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	dq, err := query.New(query.Fragments{
		Skills:            q.Skills,
		JobRole:           q.JobRole,
		CompanyPreference: q.CompanyPreference,
		Qualification:     q.Qualification,
	}, q.TopK, q.MinScore)
	if err != nil {
		return Result{}, err
	}

	out, err := c.matchSvc.Search(ctx, dq)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	matches := make([]Match, len(out.Matches))
	for i := range out.Matches {
		m := &out.Matches[i]
		rec := m.Record()
		matches[i] = Match{
			Rank:   m.Rank(),
			Score:  m.Score(),
			Row:    rec.Index(),
			Record: rec.Fields(),
		}
	}
	return Result{Matches: matches, TopK: out.TopK, Model: out.Fingerprint}, nil
}

// Reload re-reads the artifacts and swaps them in atomically.
// On failure the previous model keeps serving.
func (c *Client) Reload(ctx context.Context) (info ModelInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	mi, err := c.modelSvc.Reload(ctx)
	if err != nil {
		return ModelInfo{}, err
	}
	return toModelInfo(mi), nil
}

// Model describes the serving model.
func (c *Client) Model() (ModelInfo, error) {
	mi, err := c.modelSvc.Info()
	if err != nil {
		return ModelInfo{}, err
	}
	return toModelInfo(mi), nil
}

// Health checks the model and, when configured, the result cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

func toModelInfo(mi modeluc.Info) ModelInfo {
	return ModelInfo{
		Fingerprint:    mi.Fingerprint,
		Documents:      mi.Documents,
		Terms:          mi.Terms,
		Fields:         mi.Fields,
		CombinedColumn: mi.CombinedColumn,
		LoadedAt:       mi.LoadedAt,
	}
}

// IsUserError reports whether err is caused by the query rather than the
// model: an empty or malformed query, or one nothing matched.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidQuery) || errors.Is(err, ErrNoResults)
}
