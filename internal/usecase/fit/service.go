package fit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/corpus"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

// combineSep joins field values into the Combined Text.
const combineSep = " "

// Options select what gets vectorized.
type Options struct {
	Fields         []string
	CombinedColumn string
	Stem           bool
}

// Request is a full offline fit: read, build, save.
type Request struct {
	CorpusPath string
	Layout     artifact.Layout
	Options
}

// Service fits TF-IDF models from job corpora.
type Service struct {
	reader CorpusReader
	writer ArtifactWriter
	logger *zap.Logger
}

// New creates a fit service. Nil reader and writer use the local filesystem.
func New(reader CorpusReader, writer ArtifactWriter, logger *zap.Logger) *Service {
	if reader == nil {
		reader = FileReader{}
	}
	if writer == nil {
		writer = DiskWriter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, writer: writer, logger: logger}
}

// Run reads the corpus, fits the model and writes the artifacts.
// Nothing is written when any step fails.
func (s *Service) Run(ctx context.Context, req Request) (*artifact.Model, error) {
	start := time.Now()

	c, err := s.reader.ReadCorpus(req.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	s.logger.Info("Corpus loaded",
		zap.String("path", req.CorpusPath),
		zap.Int("records", c.Len()),
		zap.Int("columns", c.Schema().Len()),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := Build(c, req.Options)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved, err := s.writer.Save(req.Layout, m)
	if err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}

	s.logger.Info("Model fitted",
		zap.String("dir", req.Layout.Dir),
		zap.String("fingerprint", saved.Fingerprint()),
		zap.Int("documents", saved.NumDocs()),
		zap.Int("terms", saved.VocabularySize()),
		zap.Int("nnz", saved.Matrix().NNZ()),
		zap.Duration("took", time.Since(start)),
	)
	return saved, nil
}

// Build fits an in-memory model: Combined Text per record, vocabulary and
// IDF over the whole corpus, one normalized vector per record.
func Build(c *job.Corpus, opts Options) (*artifact.Model, error) {
	if opts.CombinedColumn == "" {
		opts.CombinedColumn = domain.DefaultMatchConfig().CombinedColumn
	}
	for _, f := range opts.Fields {
		if f == opts.CombinedColumn {
			return nil, fmt.Errorf("%w: field %q is also the combined column", domain.ErrConfiguration, f)
		}
	}

	docs, err := c.Combine(opts.Fields, combineSep)
	if err != nil {
		return nil, err
	}

	v, matrix, err := tfidf.Fit(docs, tfidf.Analyzer{Lowercase: true, Stem: opts.Stem})
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}

	processed, err := c.WithColumn(opts.CombinedColumn, docs)
	if err != nil {
		return nil, fmt.Errorf("add combined column: %w", err)
	}

	return artifact.NewModel(v, matrix, processed, opts.Fields, opts.CombinedColumn)
}

// FileReader reads CSV or Parquet corpora from disk.
type FileReader struct{}

// ReadCorpus implements CorpusReader.
func (FileReader) ReadCorpus(path string) (*job.Corpus, error) {
	return corpus.ReadFile(path)
}

// DiskWriter saves artifacts with artifact.Save.
type DiskWriter struct{}

// Save implements ArtifactWriter.
func (DiskWriter) Save(l artifact.Layout, m *artifact.Model) (*artifact.Model, error) {
	return artifact.Save(l, m)
}
