package artifact

import (
	"testing"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

var testFields = []string{"Job Title", "skills"}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return newTestModelFrom(t, [][]string{
		{"Data Analyst", "sql python", "Acme"},
		{"Chef", "cooking", ""},
		{"Data Engineer", "python spark", "Initech"},
	})
}

func newTestModelFrom(t *testing.T, rows [][]string) *Model {
	t.Helper()
	c, err := job.NewCorpus([]string{"Job Title", "skills", "Company"}, rows)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	docs, err := c.Combine(testFields, " ")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	c, err = c.WithColumn("combined", docs)
	if err != nil {
		t.Fatalf("with column: %v", err)
	}
	v, m, err := tfidf.Fit(docs, tfidf.DefaultAnalyzer())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	model, err := NewModel(v, m, c, testFields, "combined")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return model
}
