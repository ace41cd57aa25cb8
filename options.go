package jobmatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	defaultTopK int
	maxTopK     int

	// result cache, disabled without addrs
	driver   string
	addrs    []string
	password string
	cacheTTL time.Duration

	vectorizerURL string
	matrixURL     string
	datasetURL    string

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithDefaultTopK sets how many matches a query returns when it does not ask.
// Default: 5.
func WithDefaultTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = k
	})
}

// WithMaxTopK caps the number of matches a query may ask for.
// Default: 100.
func WithMaxTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTopK = k
	})
}

// WithValkey caches ranked results in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches ranked results in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCacheTTL sets how long cached results live. Default: 10 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithRemoteArtifacts downloads missing artifacts from the given URLs
// before loading. Empty URLs are skipped.
func WithRemoteArtifacts(vectorizerURL, matrixURL, datasetURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorizerURL = vectorizerURL
		c.matrixURL = matrixURL
		c.datasetURL = datasetURL
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations,
// model size) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
