package match

import (
	"context"
	"testing"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

var testFields = []string{"Job Title", "skills"}

// newTestModel fits a small corpus; row i of rows is corpus row i.
func newTestModel(t *testing.T, rows [][]string) *artifact.Model {
	t.Helper()
	c, err := job.NewCorpus([]string{"Job Title", "skills"}, rows)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	docs, err := c.Combine(testFields, " ")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	v, m, err := tfidf.Fit(docs, tfidf.DefaultAnalyzer())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	model, err := artifact.NewModel(v, m, c, testFields, "combined")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return model
}

func jobRows() [][]string {
	return [][]string{
		{"Data Analyst", "sql python"},
		{"Chef", "cooking"},
		{"Data Engineer", "python spark"},
		{"Pastry Chef", "baking cooking"},
	}
}

type fixedModel struct {
	model *artifact.Model
	err   error
}

func (f *fixedModel) Current() (*artifact.Model, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.model == nil {
		return nil, domain.ErrModelNotLoaded
	}
	return f.model, nil
}

type mockScorer struct {
	hits  []dommatch.Hit
	err   error
	calls int
	k     int
}

func (m *mockScorer) Score(_ context.Context, _ *artifact.Model, _ string, k int, _ float64) ([]dommatch.Hit, error) {
	m.calls++
	m.k = k
	return m.hits, m.err
}
