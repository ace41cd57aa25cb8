package matchcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

type mockScorer struct {
	hits  []dommatch.Hit
	err   error
	calls int
}

func (m *mockScorer) Score(_ context.Context, _ *artifact.Model, _ string, _ int, _ float64) ([]dommatch.Hit, error) {
	m.calls++
	return m.hits, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedScorer(inner *mockScorer) (*CachedScorer, *mockKVStore) {
	ms := &mockKVStore{}
	return New(inner, ms, time.Minute, nil, zap.NewNop()), ms
}

// newModel returns an in-memory three-row model without a fingerprint.
func newModel(t *testing.T) *artifact.Model {
	t.Helper()
	c, err := job.NewCorpus([]string{"title"}, [][]string{{"data analyst"}, {"chef"}, {"go developer"}})
	if err != nil {
		t.Fatal(err)
	}
	docs, err := c.Combine([]string{"title"}, " ")
	if err != nil {
		t.Fatal(err)
	}
	v, m, err := tfidf.Fit(docs, tfidf.DefaultAnalyzer())
	if err != nil {
		t.Fatal(err)
	}
	model, err := artifact.NewModel(v, m, c, []string{"title"}, "combined")
	if err != nil {
		t.Fatal(err)
	}
	return model
}

// newSavedModel returns the test model stamped with an on-disk fingerprint.
func newSavedModel(t *testing.T) *artifact.Model {
	t.Helper()
	saved, err := artifact.Save(artifact.DefaultLayout(t.TempDir()), newModel(t))
	if err != nil {
		t.Fatal(err)
	}
	return saved
}
