package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
)

const parquetBatchSize = 1000

// ReadParquetFile loads a flat parquet file. Every leaf column becomes a
// string column; null values become "". Repeated leaves are joined with ", ".
func ReadParquetFile(path string) (*job.Corpus, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return readParquet(pf)
}

func readParquet(pf *parquet.File) (*job.Corpus, error) {
	leaves := pf.Schema().Columns()
	columns := make([]string, len(leaves))
	for i, path := range leaves {
		columns[i] = strings.Join(path, ".")
	}

	var rows [][]string
	buf := make([]parquet.Row, parquetBatchSize)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, len(columns), buf, &rows); err != nil {
			return nil, err
		}
	}

	c, err := job.NewCorpus(columns, rows)
	if err != nil {
		return nil, fmt.Errorf("build corpus: %w", err)
	}
	return c, nil
}

func readRowGroup(rg parquet.RowGroup, width int, buf []parquet.Row, out *[][]string) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()

	for {
		n, readErr := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			*out = append(*out, rowValues(buf[i], width))
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read rows: %w", readErr)
		}
	}
}

func rowValues(row parquet.Row, width int) []string {
	values := make([]string, width)
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= width || v.IsNull() {
			continue
		}
		if values[col] != "" {
			values[col] += ", " + v.String()
			continue
		}
		values[col] = v.String()
	}
	return values
}
