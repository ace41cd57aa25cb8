// Package corpus reads and writes job posting datasets.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
)

// Format is a supported on-disk dataset format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// DetectFormat picks the format from the file extension. Anything that is not
// .parquet is read as CSV.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatCSV
}

// ReadFile loads a corpus from path.
func ReadFile(path string) (*job.Corpus, error) {
	switch DetectFormat(path) {
	case FormatParquet:
		return ReadParquetFile(path)
	default:
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("open corpus: %w", err)
		}
		defer func() { _ = f.Close() }()

		c, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		return c, nil
	}
}
