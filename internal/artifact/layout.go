package artifact

import "path/filepath"

// Default artifact file names.
const (
	DefaultVectorizerFile = "vectorizer.json"
	DefaultMatrixFile     = "vectors.bin"
	DefaultDatasetFile    = "processed_jobs.csv"
)

// Layout locates the three artifact files.
type Layout struct {
	Dir        string
	Vectorizer string
	Matrix     string
	Dataset    string
}

// DefaultLayout returns the default file names inside dir.
func DefaultLayout(dir string) Layout {
	return Layout{
		Dir:        dir,
		Vectorizer: DefaultVectorizerFile,
		Matrix:     DefaultMatrixFile,
		Dataset:    DefaultDatasetFile,
	}
}

// VectorizerPath returns the full path of the vectorizer file.
func (l Layout) VectorizerPath() string { return filepath.Join(l.Dir, l.Vectorizer) }

// MatrixPath returns the full path of the document vector file.
func (l Layout) MatrixPath() string { return filepath.Join(l.Dir, l.Matrix) }

// DatasetPath returns the full path of the processed dataset.
func (l Layout) DatasetPath() string { return filepath.Join(l.Dir, l.Dataset) }

// Paths returns the artifact paths in persistence order.
func (l Layout) Paths() []string {
	return []string{l.VectorizerPath(), l.MatrixPath(), l.DatasetPath()}
}
