package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/jobmatch/internal/corpus"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

// renameFile is swapped in tests to inject rename failures.
var renameFile = os.Rename

// Save writes the three artifacts into the layout directory and returns the
// model stamped with its fingerprint. Files are staged as temporaries in the
// target directory and renamed into place only after all of them were written.
// Previous artifacts are moved aside during the renames and restored if any
// rename fails, so a failed save leaves them untouched.
func Save(l Layout, m *Model) (*Model, error) {
	if err := os.MkdirAll(l.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", l.Dir, err)
	}

	h := sha256.New()
	writers := []func(io.Writer) error{
		func(w io.Writer) error {
			data, err := encodeVectorizer(m)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
		func(w io.Writer) error { return tfidf.WriteMatrix(w, m.Matrix()) },
		func(w io.Writer) error { return corpus.WriteCSV(w, m.Corpus()) },
	}

	paths := l.Paths()
	tmps := make([]string, 0, len(paths))
	cleanup := func() {
		for _, t := range tmps {
			_ = os.Remove(t)
		}
	}

	for i, path := range paths {
		tmp, err := writeTemp(path, h, writers[i])
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		tmps = append(tmps, tmp)
	}

	if err := commit(tmps, paths); err != nil {
		cleanup()
		return nil, err
	}

	return m.withFingerprint(hex.EncodeToString(h.Sum(nil))), nil
}

// commit renames every temp file onto its target. Existing regular files are
// moved to a hidden backup first; on failure the committed targets are rolled
// back in reverse order.
func commit(tmps, paths []string) error {
	backups := make([]string, len(paths))
	committed := 0

	rollback := func() {
		for i := committed - 1; i >= 0; i-- {
			if backups[i] != "" {
				_ = renameFile(backups[i], paths[i])
			} else {
				_ = os.Remove(paths[i])
			}
		}
	}

	for i, path := range paths {
		if fi, err := os.Lstat(path); err == nil && fi.Mode().IsRegular() {
			bak := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".bak")
			if err := renameFile(path, bak); err != nil {
				rollback()
				return fmt.Errorf("backup %s: %w", filepath.Base(path), err)
			}
			backups[i] = bak
		}
		if err := renameFile(tmps[i], path); err != nil {
			if backups[i] != "" {
				_ = renameFile(backups[i], path)
			}
			rollback()
			return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
		}
		committed++
	}

	for _, b := range backups {
		if b != "" {
			_ = os.Remove(b)
		}
	}
	return nil
}

func writeTemp(path string, h hash.Hash, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}

	err = write(io.MultiWriter(f, h))
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// Load reads and validates the three artifacts. Unknown formats are
// domain.ErrArtifactCorrupt; disagreeing row or column counts are
// domain.ErrArtifactMismatch; missing files keep their fs error.
func Load(l Layout) (*Model, error) {
	h := sha256.New()

	vecData, err := os.ReadFile(filepath.Clean(l.VectorizerPath()))
	if err != nil {
		return nil, fmt.Errorf("read vectorizer: %w", err)
	}
	_, _ = h.Write(vecData)
	v, meta, err := decodeVectorizer(vecData)
	if err != nil {
		return nil, err
	}

	var matrix *tfidf.Matrix
	err = readHashed(l.MatrixPath(), h, func(r io.Reader) (err error) {
		matrix, err = tfidf.ReadMatrix(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}

	var dataset *job.Corpus
	err = readHashed(l.DatasetPath(), h, func(r io.Reader) (err error) {
		dataset, err = corpus.ReadCSV(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	m, err := NewModel(v, matrix, dataset, meta.fields, meta.combinedColumn)
	if err != nil {
		return nil, err
	}
	return m.withFingerprint(hex.EncodeToString(h.Sum(nil))), nil
}

// readHashed streams path through decode while feeding every byte into h.
// Decode failures are reported as domain.ErrArtifactCorrupt.
func readHashed(path string, h hash.Hash, decode func(io.Reader) error) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r := io.TeeReader(f, h)
	if err := decode(r); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrArtifactCorrupt, filepath.Base(path), err)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("drain %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Missing returns the artifact paths that do not exist on disk.
func Missing(l Layout) []string {
	var missing []string
	for _, p := range l.Paths() {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			missing = append(missing, p)
		}
	}
	return missing
}
