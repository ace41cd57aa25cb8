package health

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
)

// ModelSource exposes the serving model snapshot.
type ModelSource interface {
	Current() (*artifact.Model, error)
}

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
