package matchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/db"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
)

const cacheKeyPrefix = "jobmatch:match:"

// scorer is the decorated ranking step (ISP).
type scorer interface {
	Score(ctx context.Context, m *artifact.Model, text string, k int, minScore float64) ([]dommatch.Hit, error)
}

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedScorer caches ranked (row, score) lists in a key-value store.
// Keys include the model fingerprint, so a reload never serves stale rows.
type CachedScorer struct {
	inner      scorer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner scorer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedScorer{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type cachedHit struct {
	Row   int     `json:"r"`
	Score float64 `json:"s"`
}

// Score returns cached hits or delegates to the inner scorer.
// Cache failures are logged and never fail the query.
func (c *CachedScorer) Score(
	ctx context.Context, m *artifact.Model, text string, k int, minScore float64,
) ([]dommatch.Hit, error) {
	if m.Fingerprint() == "" {
		return c.inner.Score(ctx, m, text, k, minScore)
	}

	key := cacheKey(m.Fingerprint(), text, k, minScore)

	if hits, ok := c.getFromCache(ctx, key, m.NumDocs()); ok {
		c.incCache("hit")
		return hits, nil
	}

	c.incCache("miss")

	hits, err := c.inner.Score(ctx, m, text, k, minScore)
	if err != nil {
		return nil, fmt.Errorf("score query: %w", err)
	}

	c.putToCache(ctx, key, hits)
	return hits, nil
}

func (c *CachedScorer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(fingerprint, text string, k int, minScore float64) string {
	h := sha256.New()
	for _, part := range []string{
		fingerprint,
		strconv.Itoa(k),
		strconv.FormatFloat(minScore, 'g', -1, 64),
		text,
	} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedScorer) getFromCache(ctx context.Context, key string, numDocs int) ([]dommatch.Hit, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached matches", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var cached []cachedHit
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Failed to parse cached matches", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	hits := make([]dommatch.Hit, len(cached))
	for i, h := range cached {
		if h.Row < 0 || h.Row >= numDocs {
			c.logger.Warn("Cached match outside corpus", zap.String("key", key), zap.Int("row", h.Row))
			return nil, false
		}
		hits[i] = dommatch.Hit{Row: h.Row, Score: h.Score}
	}
	return hits, true
}

func (c *CachedScorer) putToCache(ctx context.Context, key string, hits []dommatch.Hit) {
	cached := make([]cachedHit, len(hits))
	for i, h := range hits {
		cached[i] = cachedHit{Row: h.Row, Score: h.Score}
	}
	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("Failed to encode matches", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache matches", zap.String("key", key), zap.Error(err))
	}
}
