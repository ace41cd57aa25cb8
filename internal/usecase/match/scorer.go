package match

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
)

// TFIDFScorer computes cosine similarity against the frozen model in memory.
type TFIDFScorer struct{}

// Score transforms text with the model vocabulary and ranks every row.
// Out-of-vocabulary text scores every row 0.
func (TFIDFScorer) Score(_ context.Context, m *artifact.Model, text string, k int, minScore float64) ([]dommatch.Hit, error) {
	q := m.Vectorizer().Transform(text)
	return Rank(m.Matrix().Similarities(q), k, minScore), nil
}
