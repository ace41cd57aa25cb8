package corpus

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

type postingRow struct {
	Title   string  `parquet:"title"`
	Skills  string  `parquet:"skills"`
	Company *string `parquet:"company,optional"`
	Salary  int64   `parquet:"salary"`
}

func TestReadParquetFile(t *testing.T) {
	acme := "Acme"
	path := filepath.Join(t.TempDir(), "jobs.parquet")
	rows := []postingRow{
		{Title: "Data Analyst", Skills: "sql python", Company: &acme, Salary: 100},
		{Title: "Chef", Skills: "cooking", Salary: 50},
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}

	c, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for _, col := range []string{"title", "skills", "company", "salary"} {
		if !c.Schema().Has(col) {
			t.Fatalf("missing column %q in %v", col, c.Schema().Columns())
		}
	}

	first := c.Record(0)
	if first.Get("title") != "Data Analyst" || first.Get("company") != "Acme" {
		t.Errorf("unexpected first record: %v", first.Fields())
	}
	if first.Get("salary") != "100" {
		t.Errorf("salary = %q, want 100", first.Get("salary"))
	}
	if got := c.Record(1).Get("company"); got != "" {
		t.Errorf("null value must read as empty, got %q", got)
	}
}
