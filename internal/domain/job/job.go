// Package job holds the job posting corpus: an ordered set of columns and
// row-aligned records identified by their position.
package job

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Schema is the ordered column header of a corpus.
type Schema struct {
	columns []string
	pos     map[string]int
}

// NewSchema validates a column header. Column names must be unique and non-empty.
func NewSchema(columns []string) (*Schema, error) {
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := pos[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		pos[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Schema{columns: cols, pos: pos}, nil
}

// Columns returns a copy of the column names in header order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// Has reports whether the column exists.
func (s *Schema) Has(name string) bool {
	_, ok := s.pos[name]
	return ok
}

// Record is a single job posting (immutable value object).
type Record struct {
	index  int
	schema *Schema
	values []string
}

// Index returns the row position of the record in its corpus.
func (r Record) Index() int { return r.index }

// Get returns the value of a column, or "" when the column is missing.
func (r Record) Get(name string) string {
	if r.schema == nil {
		return ""
	}
	i, ok := r.schema.pos[name]
	if !ok {
		return ""
	}
	return r.values[i]
}

// Values returns a copy of the record values in header order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Fields returns the record as a column -> value map.
func (r Record) Fields() map[string]string {
	if r.schema == nil {
		return map[string]string{}
	}
	m := make(map[string]string, len(r.values))
	for i, c := range r.schema.columns {
		m[c] = r.values[i]
	}
	return m
}

// Corpus is an ordered, immutable collection of job records.
type Corpus struct {
	schema  *Schema
	records []Record
}

// NewCorpus builds a corpus from a header and raw rows.
// Short rows are padded with empty strings; rows wider than the header are rejected.
func NewCorpus(columns []string, rows [][]string) (*Corpus, error) {
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		if len(row) > schema.Len() {
			return nil, fmt.Errorf("row %d has %d values, header has %d columns", i, len(row), schema.Len())
		}
		values := make([]string, schema.Len())
		copy(values, row)
		records[i] = Record{index: i, schema: schema, values: values}
	}
	return &Corpus{schema: schema, records: records}, nil
}

// Schema returns the corpus header.
func (c *Corpus) Schema() *Schema { return c.schema }

// Len returns the number of records.
func (c *Corpus) Len() int { return len(c.records) }

// Record returns the record at row i. Panics when i is out of range.
func (c *Corpus) Record(i int) Record { return c.records[i] }

// Rows returns the raw values of every record in row order.
func (c *Corpus) Rows() [][]string {
	rows := make([][]string, len(c.records))
	for i, r := range c.records {
		rows[i] = r.Values()
	}
	return rows
}

// Combine joins the given fields of every record with sep.
// Missing values contribute an empty string. A field absent from the header
// is absent from every record and fails with domain.ErrConfiguration.
func (c *Corpus) Combine(fields []string, sep string) ([]string, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields selected", domain.ErrConfiguration)
	}
	idx := make([]int, len(fields))
	for i, f := range fields {
		p, ok := c.schema.pos[f]
		if !ok {
			return nil, fmt.Errorf("%w: field %q not found in corpus columns", domain.ErrConfiguration, f)
		}
		idx[i] = p
	}

	out := make([]string, len(c.records))
	parts := make([]string, len(idx))
	for i, r := range c.records {
		for j, p := range idx {
			parts[j] = r.values[p]
		}
		out[i] = strings.Join(parts, sep)
	}
	return out, nil
}

// WithColumn returns a new corpus with the named column set to values.
// An existing column is overwritten in place; a new one is appended.
func (c *Corpus) WithColumn(name string, values []string) (*Corpus, error) {
	if len(values) != len(c.records) {
		return nil, fmt.Errorf("column %q has %d values, corpus has %d records", name, len(values), len(c.records))
	}

	columns := c.schema.Columns()
	p, exists := c.schema.pos[name]
	if !exists {
		columns = append(columns, name)
		p = len(columns) - 1
	}

	rows := make([][]string, len(c.records))
	for i, r := range c.records {
		row := make([]string, len(columns))
		copy(row, r.values)
		row[p] = values[i]
		rows[i] = row
	}
	return NewCorpus(columns, rows)
}
