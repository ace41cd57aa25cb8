package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

const (
	vectorizerFormat  = "jobmatch.vectorizer"
	vectorizerVersion = 1
)

type analyzerDoc struct {
	Lowercase    bool   `json:"lowercase"`
	TokenPattern string `json:"token_pattern"`
	Stem         bool   `json:"stem"`
}

type vectorizerDoc struct {
	Format         string      `json:"format"`
	Version        int         `json:"version"`
	Analyzer       analyzerDoc `json:"analyzer"`
	Fields         []string    `json:"fields"`
	CombinedColumn string      `json:"combined_column"`
	NumDocs        int         `json:"num_docs"`
	Terms          []string    `json:"terms"`
	IDF            []float64   `json:"idf"`
}

type vectorizerMeta struct {
	fields         []string
	combinedColumn string
}

func encodeVectorizer(m *Model) ([]byte, error) {
	v := m.Vectorizer()
	a := v.Analyzer()
	doc := vectorizerDoc{
		Format:  vectorizerFormat,
		Version: vectorizerVersion,
		Analyzer: analyzerDoc{
			Lowercase:    a.Lowercase,
			TokenPattern: tfidf.TokenPattern,
			Stem:         a.Stem,
		},
		Fields:         m.Fields(),
		CombinedColumn: m.CombinedColumn(),
		NumDocs:        v.NumDocs(),
		Terms:          v.Terms(),
		IDF:            v.IDF(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal vectorizer: %w", err)
	}
	return data, nil
}

func decodeVectorizer(data []byte) (*tfidf.Vectorizer, vectorizerMeta, error) {
	var doc vectorizerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, vectorizerMeta{}, fmt.Errorf("%w: vectorizer: %w", domain.ErrArtifactCorrupt, err)
	}
	if doc.Format != vectorizerFormat {
		return nil, vectorizerMeta{}, fmt.Errorf("%w: vectorizer: unknown format %q", domain.ErrArtifactCorrupt, doc.Format)
	}
	if doc.Version != vectorizerVersion {
		return nil, vectorizerMeta{}, fmt.Errorf("%w: vectorizer: unsupported version %d", domain.ErrArtifactCorrupt, doc.Version)
	}
	if doc.Analyzer.TokenPattern != tfidf.TokenPattern {
		return nil, vectorizerMeta{}, fmt.Errorf("%w: vectorizer: unsupported token pattern %q",
			domain.ErrArtifactCorrupt, doc.Analyzer.TokenPattern)
	}

	a := tfidf.Analyzer{Lowercase: doc.Analyzer.Lowercase, Stem: doc.Analyzer.Stem}
	v, err := tfidf.Restore(a, doc.Terms, doc.IDF, doc.NumDocs)
	if err != nil {
		return nil, vectorizerMeta{}, fmt.Errorf("%w: vectorizer: %w", domain.ErrArtifactCorrupt, err)
	}
	return v, vectorizerMeta{fields: doc.Fields, combinedColumn: doc.CombinedColumn}, nil
}
