// Package artifact persists, loads, provisions and hot-swaps the fitted
// matching model.
package artifact

import (
	"time"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

// Model is an immutable, row-aligned snapshot of the vectorizer, the document
// vectors and the job corpus they were built from.
type Model struct {
	vectorizer     *tfidf.Vectorizer
	matrix         *tfidf.Matrix
	corpus         *job.Corpus
	fields         []string
	combinedColumn string
	fingerprint    string
	loadedAt       time.Time
}

// NewModel checks that the three parts describe the same rows and columns.
func NewModel(
	v *tfidf.Vectorizer,
	m *tfidf.Matrix,
	c *job.Corpus,
	fields []string,
	combinedColumn string,
) (*Model, error) {
	if m.Rows() != c.Len() {
		return nil, domain.NewMismatch("matrix rows vs dataset rows", c.Len(), m.Rows())
	}
	if m.Rows() != v.NumDocs() {
		return nil, domain.NewMismatch("matrix rows vs vectorizer num_docs", v.NumDocs(), m.Rows())
	}
	if m.Cols() != v.Dim() {
		return nil, domain.NewMismatch("matrix cols vs vocabulary size", v.Dim(), m.Cols())
	}

	f := make([]string, len(fields))
	copy(f, fields)
	return &Model{
		vectorizer:     v,
		matrix:         m,
		corpus:         c,
		fields:         f,
		combinedColumn: combinedColumn,
		loadedAt:       time.Now().UTC(),
	}, nil
}

func (m *Model) withFingerprint(fp string) *Model {
	cp := *m
	cp.fingerprint = fp
	return &cp
}

// Vectorizer returns the frozen vocabulary and IDF weights.
func (m *Model) Vectorizer() *tfidf.Vectorizer { return m.vectorizer }

// Matrix returns the document vectors.
func (m *Model) Matrix() *tfidf.Matrix { return m.matrix }

// Corpus returns the job records aligned with matrix rows.
func (m *Model) Corpus() *job.Corpus { return m.corpus }

// Fields returns a copy of the fields the combined text was built from.
func (m *Model) Fields() []string {
	out := make([]string, len(m.fields))
	copy(out, m.fields)
	return out
}

// CombinedColumn returns the dataset column holding the combined text.
func (m *Model) CombinedColumn() string { return m.combinedColumn }

// Fingerprint identifies the persisted artifacts. Empty until saved or loaded.
func (m *Model) Fingerprint() string { return m.fingerprint }

// LoadedAt returns when the snapshot was built.
func (m *Model) LoadedAt() time.Time { return m.loadedAt }

// NumDocs returns the number of job records.
func (m *Model) NumDocs() int { return m.corpus.Len() }

// VocabularySize returns the number of terms.
func (m *Model) VocabularySize() int { return m.vectorizer.Dim() }
