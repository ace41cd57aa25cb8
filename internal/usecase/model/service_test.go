package model

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/tfidf"
)

type mockLoader struct {
	model *artifact.Model
	err   error
	calls int
}

func (m *mockLoader) Load(_ context.Context) (*artifact.Model, error) {
	m.calls++
	return m.model, m.err
}

func newModel(t *testing.T, titles ...string) *artifact.Model {
	t.Helper()
	rows := make([][]string, len(titles))
	for i, title := range titles {
		rows[i] = []string{title}
	}
	c, err := job.NewCorpus([]string{"Job Title"}, rows)
	if err != nil {
		t.Fatal(err)
	}
	v, m, err := tfidf.Fit(titles, tfidf.DefaultAnalyzer())
	if err != nil {
		t.Fatal(err)
	}
	model, err := artifact.NewModel(v, m, c, []string{"Job Title"}, "combined")
	if err != nil {
		t.Fatal(err)
	}
	return model
}

func newMetrics() Metrics {
	return Metrics{
		Reloads:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_reloads_total"}, []string{"status"}),
		Documents: prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_documents"}),
		Terms:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_terms"}),
	}
}

func TestReload_Success(t *testing.T) {
	holder := artifact.NewHolder(nil)
	loader := &mockLoader{model: newModel(t, "data analyst", "pastry chef")}
	metrics := newMetrics()
	svc := New(loader, holder, metrics, zap.NewNop())

	info, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Documents != 2 || info.Terms != 4 {
		t.Errorf("unexpected info: %+v", info)
	}
	if cur, err := holder.Current(); err != nil || cur != loader.model {
		t.Error("holder must publish the loaded model")
	}
	if got := testutil.ToFloat64(metrics.Reloads.WithLabelValues("ok")); got != 1 {
		t.Errorf("reloads{ok} = %v", got)
	}
	if got := testutil.ToFloat64(metrics.Documents); got != 2 {
		t.Errorf("documents gauge = %v", got)
	}
	if got := testutil.ToFloat64(metrics.Terms); got != 4 {
		t.Errorf("terms gauge = %v", got)
	}
}

func TestReload_FailureKeepsPrevious(t *testing.T) {
	prev := newModel(t, "welder")
	holder := artifact.NewHolder(prev)
	metrics := newMetrics()
	svc := New(&mockLoader{err: domain.ErrArtifactMismatch}, holder, metrics, zap.NewNop())

	_, err := svc.Reload(context.Background())
	if !errors.Is(err, domain.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}
	if cur, _ := holder.Current(); cur != prev {
		t.Error("previous model must keep serving")
	}
	if got := testutil.ToFloat64(metrics.Reloads.WithLabelValues("error")); got != 1 {
		t.Errorf("reloads{error} = %v", got)
	}
}

func TestInfo(t *testing.T) {
	svc := New(&mockLoader{}, artifact.NewHolder(nil), Metrics{}, zap.NewNop())
	if _, err := svc.Info(); !errors.Is(err, domain.ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}

	svc = New(&mockLoader{}, artifact.NewHolder(newModel(t, "go developer")), Metrics{}, zap.NewNop())
	info, err := svc.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Documents != 1 || info.CombinedColumn != "combined" || len(info.Fields) != 1 {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.LoadedAt.IsZero() {
		t.Error("LoadedAt must be set")
	}
}
