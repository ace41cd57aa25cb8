package model

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
)

// Loader reads a fresh model snapshot.
type Loader interface {
	Load(ctx context.Context) (*artifact.Model, error)
}

// Holder publishes the serving snapshot.
type Holder interface {
	Current() (*artifact.Model, error)
	Swap(m *artifact.Model) *artifact.Model
}
