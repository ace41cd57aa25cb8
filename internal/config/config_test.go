package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"negative rps", func(c *Config) { c.HTTP.RateLimitRPS = -1 }, "rate_limit_rps"},
		{"default above max", func(c *Config) { c.Matcher.DefaultTopK = 10; c.Matcher.MaxTopK = 5 }, "default_top_k"},
		{"empty field", func(c *Config) { c.Fit.Fields = []string{"Role", " "} }, "empty names"},
		{"duplicate field", func(c *Config) { c.Fit.Fields = []string{"Role", "Role"} }, "duplicate"},
		{"bad driver", func(c *Config) { c.Cache.Driver = "memcached" }, "cache.driver"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http timeouts: %+v", cfg.HTTP)
	}
	if cfg.HTTP.RateLimitBurst != 0 {
		t.Errorf("burst must stay 0 when rate limiting is off, got %d", cfg.HTTP.RateLimitBurst)
	}
	if cfg.Artifacts.Dir != "artifacts" ||
		cfg.Artifacts.VectorizerFile != "vectorizer.json" ||
		cfg.Artifacts.MatrixFile != "vectors.bin" ||
		cfg.Artifacts.DatasetFile != "processed_jobs.csv" {
		t.Errorf("unexpected artifact defaults: %+v", cfg.Artifacts)
	}
	wantFields := []string{"Job Title", "Role", "skills", "Company", "Qualifications", "Work Type"}
	if !reflect.DeepEqual(cfg.Fit.Fields, wantFields) {
		t.Errorf("expected default fields %v, got %v", wantFields, cfg.Fit.Fields)
	}
	if cfg.Fit.CombinedColumn != "combined" {
		t.Errorf("expected CombinedColumn=combined, got %q", cfg.Fit.CombinedColumn)
	}
	if cfg.Matcher.DefaultTopK != 5 || cfg.Matcher.MaxTopK != 100 {
		t.Errorf("unexpected matcher defaults: %+v", cfg.Matcher)
	}
	if cfg.Cache.Driver != "valkey" || cfg.Cache.TTLSec != 600 || cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache must be disabled without addrs")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5, RateLimitRPS: 4},
		Artifacts: ArtifactsConfig{Dir: "/srv/model"},
		Fit:       FitConfig{Fields: []string{"Role"}, CombinedColumn: "text"},
		Matcher:   MatcherConfig{DefaultTopK: 3, MaxTopK: 20},
		Cache:     CacheConfig{Driver: "redis", TTLSec: 5},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 || cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("timeouts overridden: %+v", cfg.HTTP)
	}
	if cfg.HTTP.RateLimitBurst != 5 {
		t.Errorf("expected derived burst=5, got %d", cfg.HTTP.RateLimitBurst)
	}
	if cfg.Artifacts.Dir != "/srv/model" {
		t.Errorf("expected Dir=/srv/model, got %q", cfg.Artifacts.Dir)
	}
	m := cfg.Match()
	if !reflect.DeepEqual(m.Fields, []string{"Role"}) || m.CombinedColumn != "text" || m.DefaultTopK != 3 || m.MaxTopK != 20 {
		t.Errorf("unexpected match config: %+v", m)
	}
	if cfg.Cache.Driver != "redis" || cfg.Cache.TTLSec != 5 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBMATCH_TEST_PORT", "9090")
	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `
http:
  port: ${JOBMATCH_TEST_PORT}
artifacts:
  dir: ${JOBMATCH_TEST_DIR:-/data/model}
cache:
  addrs: ["localhost:6379"]
auth:
  api_keys: ["k1"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Artifacts.Dir != "/data/model" {
		t.Errorf("expected default dir, got %q", cfg.Artifacts.Dir)
	}
	if !cfg.Cache.Enabled() {
		t.Error("expected cache enabled")
	}
	if len(cfg.Auth.APIKeys) != 1 {
		t.Errorf("expected one api key, got %v", cfg.Auth.APIKeys)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
