package fit

import (
	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
)

// CorpusReader loads a raw job corpus.
type CorpusReader interface {
	ReadCorpus(path string) (*job.Corpus, error)
}

// ArtifactWriter persists a fitted model and returns it with its fingerprint.
type ArtifactWriter interface {
	Save(l artifact.Layout, m *artifact.Model) (*artifact.Model, error)
}
