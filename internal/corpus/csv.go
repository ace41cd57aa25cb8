package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
)

const utf8BOM = "\ufeff"

// ReadCSV parses a CSV stream with a mandatory header row.
// Rows shorter than the header are padded with empty strings.
func ReadCSV(r io.Reader) (*job.Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}

	c, err := job.NewCorpus(header, rows)
	if err != nil {
		return nil, fmt.Errorf("build corpus: %w", err)
	}
	return c, nil
}

// WriteCSV writes the corpus header followed by every record in row order.
func WriteCSV(w io.Writer, c *job.Corpus) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.Schema().Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < c.Len(); i++ {
		if err := cw.Write(c.Record(i).Values()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
