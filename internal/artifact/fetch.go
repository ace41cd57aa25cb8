package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const confirmCookiePrefix = "download_warning"

// Remote maps artifact file paths to download URLs.
type Remote struct {
	VectorizerURL string
	MatrixURL     string
	DatasetURL    string
}

// Fetcher downloads missing artifacts over HTTP.
type Fetcher struct {
	client     *http.Client
	bytesTotal prometheus.Counter
	logger     *zap.Logger
}

// NewFetcher creates a fetcher. A nil client uses a 30 minute timeout;
// bytesTotal may be nil.
func NewFetcher(client *http.Client, bytesTotal prometheus.Counter, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Minute}
	}
	return &Fetcher{client: client, bytesTotal: bytesTotal, logger: logger}
}

// Ensure downloads every artifact that is absent locally and has a URL.
// Downloads run concurrently; the first failure cancels the rest.
func (f *Fetcher) Ensure(ctx context.Context, l Layout, r Remote) error {
	if err := os.MkdirAll(l.Dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", l.Dir, err)
	}

	targets := map[string]string{
		l.VectorizerPath(): r.VectorizerURL,
		l.MatrixPath():     r.MatrixURL,
		l.DatasetPath():    r.DatasetURL,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range Missing(l) {
		src := targets[path]
		if src == "" {
			continue
		}
		g.Go(func() error {
			f.logger.Info("Artifact missing, downloading",
				zap.String("file", filepath.Base(path)),
				zap.String("url", redactURL(src)),
			)
			if err := f.Download(gctx, src, path); err != nil {
				return fmt.Errorf("download %s: %w", filepath.Base(path), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch artifacts: %w", err)
	}
	return nil
}

// Download fetches src into outPath. A leftover outPath.tmp is resumed with
// an HTTP Range request; the file is renamed into place once complete.
// Google Drive style confirmation cookies are followed once.
func (f *Fetcher) Download(ctx context.Context, src, outPath string) error {
	cleanPath := filepath.Clean(outPath)
	tmpPath := cleanPath + ".tmp"

	var offset int64
	if st, err := os.Stat(tmpPath); err == nil {
		offset = st.Size()
	}

	resp, err := f.get(ctx, src, offset, nil)
	if err != nil {
		return err
	}
	if token, cookie := confirmToken(resp); token != "" {
		_ = resp.Body.Close()
		f.logger.Debug("Following download confirmation", zap.String("file", filepath.Base(outPath)))

		confirmed, err := withQuery(src, "confirm", token)
		if err != nil {
			return err
		}
		resp, err = f.get(ctx, confirmed, offset, cookie)
		if err != nil {
			return err
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("download: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	flags := os.O_WRONLY | os.O_CREATE
	if resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		offset = 0
	}

	out, err := os.OpenFile(tmpPath, flags, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	written, err := io.Copy(out, &countingReader{reader: resp.Body, counter: f.bytesTotal})
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	f.logger.Info("Artifact downloaded",
		zap.String("file", filepath.Base(outPath)),
		zap.Int64("bytes", offset+written),
		zap.Bool("resumed", offset > 0),
	)

	if err := os.Rename(tmpPath, cleanPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, src string, offset int64, cookie *http.Cookie) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	return resp, nil
}

// confirmToken returns the value of a download_warning* cookie, if any.
func confirmToken(resp *http.Response) (string, *http.Cookie) {
	for _, c := range resp.Cookies() {
		if strings.HasPrefix(c.Name, confirmCookiePrefix) && c.Value != "" {
			return c.Value, &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	return "", nil
}

func withQuery(src, key, value string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redactURL strips query and credentials before logging.
func redactURL(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}

type countingReader struct {
	reader  io.Reader
	counter prometheus.Counter
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if r.counter != nil && n > 0 {
		r.counter.Add(float64(n))
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("read: %w", err)
	}
	return n, err
}
