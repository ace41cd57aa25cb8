package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a bad field selection at fit time.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInsufficientData signals an empty corpus at fit time.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrEmptyQuery signals that no query fragment carried usable text.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidQuery signals malformed query parameters (top_k, min_score, length).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoResults signals that there are no candidate records to rank.
	ErrNoResults = errors.New("no results")
	// ErrArtifactMismatch signals that loaded artifacts are not row-aligned.
	ErrArtifactMismatch = errors.New("artifact mismatch")
	// ErrArtifactCorrupt signals an unreadable or unsupported artifact file.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
	// ErrModelNotLoaded signals that no model snapshot is available for serving.
	ErrModelNotLoaded = errors.New("model not loaded")
)

// MismatchError wraps ErrArtifactMismatch with the disagreeing counts.
type MismatchError struct {
	What     string
	Expected int
	Actual   int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s: expected %d, got %d", ErrArtifactMismatch.Error(), e.What, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error { return ErrArtifactMismatch }

// NewMismatch creates an artifact mismatch error.
func NewMismatch(what string, expected, actual int) error {
	return &MismatchError{What: what, Expected: expected, Actual: actual}
}
