package match

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
)

// ModelSource exposes the serving model snapshot.
type ModelSource interface {
	Current() (*artifact.Model, error)
}

// Scorer ranks the rows of a model snapshot against a query text.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, m *artifact.Model, text string, k int, minScore float64) ([]dommatch.Hit, error)
}
