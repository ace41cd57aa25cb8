package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// MaxTextLength is the maximum combined query length in bytes. It bounds
// tokenization work for GET, form and library callers, which the HTTP body
// cap does not cover.
const MaxTextLength = 4096

// Fragments are the optional free-text parts of a job search.
type Fragments struct {
	Skills            string
	JobRole           string
	CompanyPreference string
	Qualification     string
}

// Query is a validated job search (immutable value object).
type Query struct {
	text     string
	topK     int
	minScore float64
}

// New joins the non-empty fragments with a single space and validates limits.
// topK=0 means "use the service default". An empty text is accepted here;
// the matcher rejects it with domain.ErrEmptyQuery.
func New(f Fragments, topK int, minScore float64) (Query, error) {
	if topK < 0 {
		return Query{}, fmt.Errorf("%w: top_k must be >= 0, got %d", domain.ErrInvalidQuery, topK)
	}
	if minScore < 0 || minScore > 1 {
		return Query{}, fmt.Errorf("%w: min_score must be within [0, 1], got %g", domain.ErrInvalidQuery, minScore)
	}

	text := Join(f.Skills, f.JobRole, f.CompanyPreference, f.Qualification)
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxTextLength)
	}
	return Query{text: text, topK: topK, minScore: minScore}, nil
}

// Join trims every part and joins the non-empty ones with a single space.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Text returns the combined query string.
func (q Query) Text() string { return q.text }

// IsEmpty reports whether no fragment carried any text.
func (q Query) IsEmpty() bool { return q.text == "" }

// TopK returns the requested result count (0 = default).
func (q Query) TopK() int { return q.topK }

// MinScore returns the minimum similarity a match must reach.
func (q Query) MinScore() float64 { return q.minScore }
