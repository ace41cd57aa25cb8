package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
)

// Info describes the serving model.
type Info struct {
	Fingerprint    string
	Documents      int
	Terms          int
	Fields         []string
	CombinedColumn string
	LoadedAt       time.Time
}

// Metrics are the optional collectors the service reports to.
type Metrics struct {
	Reloads   *prometheus.CounterVec // label "status"
	Documents prometheus.Gauge
	Terms     prometheus.Gauge
}

// Service loads and hot-swaps the serving model.
type Service struct {
	loader  Loader
	holder  Holder
	metrics Metrics
	logger  *zap.Logger

	mu sync.Mutex // serializes reloads
}

// New creates a model service.
func New(loader Loader, holder Holder, m Metrics, logger *zap.Logger) *Service {
	return &Service{loader: loader, holder: holder, metrics: m, logger: logger}
}

// Reload reads the artifacts again and publishes them atomically.
// On failure the previous model keeps serving.
func (s *Service) Reload(ctx context.Context) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loader.Load(ctx)
	if err != nil {
		s.countReload("error")
		s.logger.Error("Model reload failed, keeping previous model", zap.Error(err))
		return Info{}, fmt.Errorf("reload model: %w", err)
	}

	prev := s.holder.Swap(m)
	s.countReload("ok")
	s.setGauges(m)

	fields := []zap.Field{
		zap.String("fingerprint", m.Fingerprint()),
		zap.Int("documents", m.NumDocs()),
		zap.Int("terms", m.VocabularySize()),
	}
	if prev != nil {
		fields = append(fields, zap.String("previous_fingerprint", prev.Fingerprint()))
	}
	s.logger.Info("Model loaded", fields...)

	return describe(m), nil
}

// Info describes the serving model.
func (s *Service) Info() (Info, error) {
	m, err := s.holder.Current()
	if err != nil {
		return Info{}, err
	}
	return describe(m), nil
}

func (s *Service) countReload(status string) {
	if s.metrics.Reloads != nil {
		s.metrics.Reloads.WithLabelValues(status).Inc()
	}
}

func (s *Service) setGauges(m *artifact.Model) {
	if s.metrics.Documents != nil {
		s.metrics.Documents.Set(float64(m.NumDocs()))
	}
	if s.metrics.Terms != nil {
		s.metrics.Terms.Set(float64(m.VocabularySize()))
	}
}

func describe(m *artifact.Model) Info {
	return Info{
		Fingerprint:    m.Fingerprint(),
		Documents:      m.NumDocs(),
		Terms:          m.VocabularySize(),
		Fields:         m.Fields(),
		CombinedColumn: m.CombinedColumn(),
		LoadedAt:       m.LoadedAt(),
	}
}
