package jobmatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	fituc "github.com/kailas-cloud/jobmatch/internal/usecase/fit"
)

// FitOptions select the corpus, the fields to combine and where the
// artifacts go.
type FitOptions struct {
	Corpus         string   // .csv or .parquet
	Dir            string   // artifact directory, created if needed
	Fields         []string // default: the reference dataset's six text fields
	CombinedColumn string   // default: "combined"
	Stem           bool
	Logger         *zap.Logger
}

// Fit builds the vocabulary, IDF weights and document vectors for every
// record of the corpus and writes the artifacts into Dir. Nothing is written
// when fitting fails.
func Fit(ctx context.Context, opts FitOptions) (ModelInfo, error) {
	if opts.Dir == "" {
		return ModelInfo{}, fmt.Errorf("jobmatch: %w: artifact dir is required", domain.ErrConfiguration)
	}
	if len(opts.Fields) == 0 {
		opts.Fields = domain.DefaultMatchConfig().Fields
	}

	m, err := fituc.New(nil, nil, opts.Logger).Run(ctx, fituc.Request{
		CorpusPath: opts.Corpus,
		Layout:     artifact.DefaultLayout(opts.Dir),
		Options: fituc.Options{
			Fields:         opts.Fields,
			CombinedColumn: opts.CombinedColumn,
			Stem:           opts.Stem,
		},
	})
	if err != nil {
		return ModelInfo{}, fmt.Errorf("jobmatch: %w", err)
	}

	return ModelInfo{
		Fingerprint:    m.Fingerprint(),
		Documents:      m.NumDocs(),
		Terms:          m.VocabularySize(),
		Fields:         m.Fields(),
		CombinedColumn: m.CombinedColumn(),
		LoadedAt:       m.LoadedAt(),
	}, nil
}
