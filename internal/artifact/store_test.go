package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	orig := newTestModel(t)

	saved, err := Save(l, orig)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Fingerprint() == "" {
		t.Fatal("expected fingerprint after save")
	}

	loaded, err := Load(l)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Fingerprint() != saved.Fingerprint() {
		t.Errorf("fingerprint changed: %s vs %s", loaded.Fingerprint(), saved.Fingerprint())
	}
	if !loaded.Matrix().Equal(orig.Matrix()) {
		t.Error("matrix differs after reload")
	}
	if !reflect.DeepEqual(loaded.Vectorizer().Terms(), orig.Vectorizer().Terms()) ||
		!reflect.DeepEqual(loaded.Vectorizer().IDF(), orig.Vectorizer().IDF()) {
		t.Error("vectorizer differs after reload")
	}
	if !reflect.DeepEqual(loaded.Corpus().Rows(), orig.Corpus().Rows()) {
		t.Error("dataset differs after reload")
	}
	if !reflect.DeepEqual(loaded.Fields(), testFields) || loaded.CombinedColumn() != "combined" {
		t.Errorf("metadata differs: %v %q", loaded.Fields(), loaded.CombinedColumn())
	}

	q := "python sql"
	a := orig.Matrix().Similarities(orig.Vectorizer().Transform(q))
	b := loaded.Matrix().Similarities(loaded.Vectorizer().Transform(q))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("scores differ after reload: %v vs %v", a, b)
	}
}

func TestSave_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	if _, err := Save(DefaultLayout(dir), newTestModel(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected exactly 3 files, got %v", names)
	}
}

func TestSave_FailureKeepsPreviousArtifacts(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	if _, err := Save(l, newTestModel(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	matrixBefore, err := os.ReadFile(l.MatrixPath())
	if err != nil {
		t.Fatal(err)
	}
	datasetBefore, err := os.ReadFile(l.DatasetPath())
	if err != nil {
		t.Fatal(err)
	}

	// Vectorizer target is a non-empty directory: the first rename fails.
	bad := l
	bad.Vectorizer = "blocked"
	if err := os.Mkdir(filepath.Join(l.Dir, "blocked"), 0o750); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(l.Dir, "blocked", "x"), "x")

	other := newTestModelFrom(t, [][]string{{"Welder", "welding", "Forge"}})
	if _, err := Save(bad, other); err == nil {
		t.Fatal("expected save error")
	}

	matrixAfter, _ := os.ReadFile(l.MatrixPath())
	datasetAfter, _ := os.ReadFile(l.DatasetPath())
	if string(matrixBefore) != string(matrixAfter) || string(datasetBefore) != string(datasetAfter) {
		t.Error("previous artifacts were modified by failed save")
	}
	entries, _ := os.ReadDir(l.Dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSave_LateRenameFailureRestoresAll(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	before, err := Save(l, newTestModel(t))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	snapshot := func() map[string]string {
		out := make(map[string]string)
		for _, p := range l.Paths() {
			data, err := os.ReadFile(p)
			if err != nil {
				t.Fatal(err)
			}
			out[p] = string(data)
		}
		return out
	}
	want := snapshot()

	// Fail only when the dataset temp file is moved into place, after the
	// vectorizer and matrix were already replaced.
	orig := renameFile
	t.Cleanup(func() { renameFile = orig })
	renameFile = func(src, dst string) error {
		if dst == l.DatasetPath() && strings.HasSuffix(src, ".tmp") {
			return errors.New("disk full")
		}
		return orig(src, dst)
	}

	other := newTestModelFrom(t, [][]string{{"Welder", "welding", "Forge"}})
	if _, err := Save(l, other); err == nil {
		t.Fatal("expected save error")
	}

	if got := snapshot(); !reflect.DeepEqual(got, want) {
		t.Error("previous artifacts were not restored")
	}
	entries, _ := os.ReadDir(l.Dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") || strings.HasSuffix(e.Name(), ".bak") {
			t.Errorf("leftover file: %s", e.Name())
		}
	}

	renameFile = orig
	loaded, err := Load(l)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Fingerprint() != before.Fingerprint() {
		t.Errorf("fingerprint %s, want %s", loaded.Fingerprint(), before.Fingerprint())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(DefaultLayout(t.TempDir()))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_RowMismatch(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	if _, err := Save(l, newTestModel(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Drop the last dataset row.
	data, err := os.ReadFile(l.DatasetPath())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	short := strings.Join(lines[:len(lines)-1], "\n") + "\n"
	if err := os.WriteFile(l.DatasetPath(), []byte(short), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = Load(l)
	if !errors.Is(err, domain.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}
	var me *domain.MismatchError
	if !errors.As(err, &me) || me.Expected != 2 || me.Actual != 3 {
		t.Errorf("unexpected mismatch detail: %v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, l Layout)
	}{
		{"vectorizer not json", func(t *testing.T, l Layout) {
			writeFile(t, l.VectorizerPath(), "not json")
		}},
		{"vectorizer wrong format", func(t *testing.T, l Layout) {
			writeFile(t, l.VectorizerPath(), `{"format":"other","version":1}`)
		}},
		{"vectorizer future version", func(t *testing.T, l Layout) {
			rewriteVectorizer(t, l, `"version":1`, `"version":7`)
		}},
		{"vectorizer token pattern", func(t *testing.T, l Layout) {
			rewriteVectorizer(t, l, `"token_pattern":"[\\p{L}\\p{N}_]{2,}"`, `"token_pattern":"\\w+"`)
		}},
		{"matrix garbage", func(t *testing.T, l Layout) {
			writeFile(t, l.MatrixPath(), "garbage")
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := DefaultLayout(t.TempDir())
			if _, err := Save(l, newTestModel(t)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			tc.mutate(t, l)
			_, err := Load(l)
			if !errors.Is(err, domain.ErrArtifactCorrupt) {
				t.Fatalf("expected ErrArtifactCorrupt, got %v", err)
			}
		})
	}
}

func TestLoad_FingerprintTracksContent(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	saved, err := Save(l, newTestModel(t))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(l.DatasetPath())
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, l.DatasetPath(), strings.Replace(string(data), "Acme", "Acne", 1))

	loaded, err := Load(l)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Fingerprint() == saved.Fingerprint() {
		t.Error("fingerprint must change when a file changes")
	}
}

func TestNewModel_Mismatch(t *testing.T) {
	v, m, err := tfidf.Fit([]string{"go developer", "chef"}, tfidf.DefaultAnalyzer())
	if err != nil {
		t.Fatal(err)
	}
	c, err := job.NewCorpus([]string{"title"}, [][]string{{"go developer"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewModel(v, m, c, []string{"title"}, "combined"); !errors.Is(err, domain.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}
}

func TestMissing(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	if got := Missing(l); len(got) != 3 {
		t.Fatalf("expected 3 missing, got %v", got)
	}
	writeFile(t, l.MatrixPath(), "x")
	got := Missing(l)
	if len(got) != 2 || got[0] != l.VectorizerPath() || got[1] != l.DatasetPath() {
		t.Errorf("unexpected missing list: %v", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func rewriteVectorizer(t *testing.T, l Layout, old, replacement string) {
	t.Helper()
	data, err := os.ReadFile(l.VectorizerPath())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, old) {
		t.Fatalf("vectorizer does not contain %s", old)
	}
	writeFile(t, l.VectorizerPath(), strings.Replace(s, old, replacement, 1))
}
