package jobmatch

import "github.com/kailas-cloud/jobmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration    = domain.ErrConfiguration
	ErrInsufficientData = domain.ErrInsufficientData
	ErrEmptyQuery       = domain.ErrEmptyQuery
	ErrInvalidQuery     = domain.ErrInvalidQuery
	ErrNoResults        = domain.ErrNoResults
	ErrArtifactMismatch = domain.ErrArtifactMismatch
	ErrArtifactCorrupt  = domain.ErrArtifactCorrupt
	ErrModelNotLoaded   = domain.ErrModelNotLoaded
)
