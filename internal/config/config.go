package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Config holds the jobmatch service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Fit       FitConfig       `yaml:"fit"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Cache     CacheConfig     `yaml:"cache"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int     `yaml:"port"`
	ReadTimeoutSec  int     `yaml:"read_timeout_sec"`
	WriteTimeoutSec int     `yaml:"write_timeout_sec"`
	ShutdownSec     int     `yaml:"shutdown_timeout_sec"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// ArtifactsConfig locates the fitted model on disk and, optionally, remotely.
type ArtifactsConfig struct {
	Dir                string `yaml:"dir"`
	VectorizerFile     string `yaml:"vectorizer_file"`
	MatrixFile         string `yaml:"matrix_file"`
	DatasetFile        string `yaml:"dataset_file"`
	VectorizerURL      string `yaml:"vectorizer_url"`
	MatrixURL          string `yaml:"matrix_url"`
	DatasetURL         string `yaml:"dataset_url"`
	DownloadTimeoutSec int    `yaml:"download_timeout_sec"`
}

// FitConfig holds offline fitting settings.
type FitConfig struct {
	Fields         []string `yaml:"fields"`
	CombinedColumn string   `yaml:"combined_column"`
	Stem           bool     `yaml:"stem"`
}

// MatcherConfig holds ranking settings.
type MatcherConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
	MaxTopK     int `yaml:"max_top_k"`
}

// CacheConfig holds the optional result cache connection settings.
// An empty Addrs list disables the cache.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		c.HTTP.RateLimitBurst = int(c.HTTP.RateLimitRPS) + 1
	}

	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "artifacts"
	}
	if c.Artifacts.VectorizerFile == "" {
		c.Artifacts.VectorizerFile = "vectorizer.json"
	}
	if c.Artifacts.MatrixFile == "" {
		c.Artifacts.MatrixFile = "vectors.bin"
	}
	if c.Artifacts.DatasetFile == "" {
		c.Artifacts.DatasetFile = "processed_jobs.csv"
	}
	if c.Artifacts.DownloadTimeoutSec <= 0 {
		c.Artifacts.DownloadTimeoutSec = 1800
	}

	defaults := domain.DefaultMatchConfig()
	if len(c.Fit.Fields) == 0 {
		c.Fit.Fields = defaults.Fields
	}
	if c.Fit.CombinedColumn == "" {
		c.Fit.CombinedColumn = defaults.CombinedColumn
	}
	if c.Matcher.DefaultTopK <= 0 {
		c.Matcher.DefaultTopK = defaults.DefaultTopK
	}
	if c.Matcher.MaxTopK <= 0 {
		c.Matcher.MaxTopK = defaults.MaxTopK
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps must be >= 0, got %g", c.HTTP.RateLimitRPS)
	}
	if c.Matcher.DefaultTopK > c.Matcher.MaxTopK {
		return fmt.Errorf("matcher.default_top_k (%d) exceeds matcher.max_top_k (%d)",
			c.Matcher.DefaultTopK, c.Matcher.MaxTopK)
	}
	seen := make(map[string]bool, len(c.Fit.Fields))
	for _, f := range c.Fit.Fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("fit.fields must not contain empty names")
		}
		if seen[f] {
			return fmt.Errorf("fit.fields contains duplicate %q", f)
		}
		seen[f] = true
	}
	switch c.Cache.Driver {
	case "valkey", "redis":
		// ok
	default:
		return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
	}
	return nil
}

// Match returns the matcher view of the configuration.
func (c *Config) Match() domain.MatchConfig {
	return domain.MatchConfig{
		Fields:         c.Fit.Fields,
		CombinedColumn: c.Fit.CombinedColumn,
		DefaultTopK:    c.Matcher.DefaultTopK,
		MaxTopK:        c.Matcher.MaxTopK,
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
