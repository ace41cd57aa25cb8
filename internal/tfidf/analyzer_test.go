package tfidf

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		a    Analyzer
		in   string
		want []string
	}{
		{"lowercase", DefaultAnalyzer(), "Data Analyst", []string{"data", "analyst"}},
		{"drops single chars", DefaultAnalyzer(), "C R Go", []string{"go"}},
		{"punctuation splits", DefaultAnalyzer(), "sql,python;B.Tech", []string{"sql", "python", "tech"}},
		{"underscore and digits", DefaultAnalyzer(), "node_js 3d", []string{"node_js", "3d"}},
		{"unicode letters", DefaultAnalyzer(), "Café Señor", []string{"café", "señor"}},
		{"case preserved", Analyzer{}, "SQL", []string{"SQL"}},
		{"empty", DefaultAnalyzer(), "  ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Tokenize(tc.in)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokenize_Stem(t *testing.T) {
	a := Analyzer{Lowercase: true, Stem: true}
	got := a.Tokenize("Running developers")
	want := []string{"run", "develop"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestCounts(t *testing.T) {
	c := DefaultAnalyzer().Counts("sql SQL python")
	if c["sql"] != 2 || c["python"] != 1 || len(c) != 2 {
		t.Errorf("unexpected counts: %v", c)
	}
}
