// Package config loads verbdrill settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Build   BuildConfig   `yaml:"build"`
	Cache   CacheConfig   `yaml:"cache"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// SourcesConfig locates the three build inputs. file:// URLs are allowed.
type SourcesConfig struct {
	FrequencyURL     string `yaml:"frequency_url"     env:"VERBDRILL_FREQUENCY_URL"`
	FrequencyFormat  string `yaml:"frequency_format"  env:"VERBDRILL_FREQUENCY_FORMAT"  env-default:"text"`
	DictionaryURL    string `yaml:"dictionary_url"    env:"VERBDRILL_DICTIONARY_URL"`
	DictionaryMember string `yaml:"dictionary_member" env:"VERBDRILL_DICTIONARY_MEMBER" env-default:".tei"`
	ConjugationURL   string `yaml:"conjugation_url"   env:"VERBDRILL_CONJUGATION_URL"`
}

// BuildConfig holds dataset assembly settings.
type BuildConfig struct {
	MaxVerbs          int    `yaml:"max_verbs"           env:"VERBDRILL_MAX_VERBS"           env-default:"200"`
	EagerRegular      bool   `yaml:"eager_regular"       env:"VERBDRILL_EAGER_REGULAR"`
	CrossCheckSample  int    `yaml:"cross_check_sample"  env:"VERBDRILL_CROSS_CHECK_SAMPLE"`
	CrossCheckWorkers int    `yaml:"cross_check_workers" env:"VERBDRILL_CROSS_CHECK_WORKERS" env-default:"1"`
	OutputPath        string `yaml:"output_path"         env:"VERBDRILL_OUTPUT_PATH"         env-default:"data/verbs.json"`
	DiagnosticsDir    string `yaml:"diagnostics_dir"     env:"VERBDRILL_DIAGNOSTICS_DIR"     env-default:"data/diagnostics"`
}

// CacheConfig selects the fetch cache backend.
type CacheConfig struct {
	Backend    string `yaml:"backend"     env:"VERBDRILL_CACHE_BACKEND" env-default:"dir"`
	Dir        string `yaml:"dir"         env:"VERBDRILL_CACHE_DIR"     env-default:".cache/verbdrill"`
	SQLitePath string `yaml:"sqlite_path" env:"VERBDRILL_CACHE_SQLITE"  env-default:".cache/verbdrill.db"`
}

// HTTPConfig holds source download settings.
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout"       env:"VERBDRILL_HTTP_TIMEOUT"    env-default:"30s"`
	UserAgent   string        `yaml:"user_agent"    env:"VERBDRILL_USER_AGENT"      env-default:"verbdrill-builder/1.0"`
	MaxBodySize int64         `yaml:"max_body_size" env:"VERBDRILL_MAX_BODY_SIZE"   env-default:"33554432"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"VERBDRILL_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"VERBDRILL_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags). An empty path
// loads from ENV + defaults only; a path that does not exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings every command relies on. Source URLs are only
// checked by SourcesConfig.Validate since reading a dataset does not need them.
func (c *Config) Validate() error {
	switch c.Sources.FrequencyFormat {
	case "text", "html":
	default:
		return fmt.Errorf("sources.frequency_format must be text or html (got %q)", c.Sources.FrequencyFormat)
	}
	if c.Build.MaxVerbs < 0 {
		return fmt.Errorf("build.max_verbs must be >= 0 (got %d)", c.Build.MaxVerbs)
	}
	if c.Build.CrossCheckSample < 0 {
		return fmt.Errorf("build.cross_check_sample must be >= 0 (got %d)", c.Build.CrossCheckSample)
	}
	if c.Build.CrossCheckWorkers < 1 {
		return fmt.Errorf("build.cross_check_workers must be >= 1 (got %d)", c.Build.CrossCheckWorkers)
	}
	switch c.Cache.Backend {
	case "dir", "sqlite":
	default:
		return fmt.Errorf("cache.backend must be dir or sqlite (got %q)", c.Cache.Backend)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0 (got %v)", c.HTTP.Timeout)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

// Validate checks that every source needed by a build is set.
func (s SourcesConfig) Validate() error {
	if s.FrequencyURL == "" {
		return fmt.Errorf("sources.frequency_url is required")
	}
	if s.DictionaryURL == "" {
		return fmt.Errorf("sources.dictionary_url is required")
	}
	if s.DictionaryMember == "" {
		return fmt.Errorf("sources.dictionary_member is required")
	}
	if !strings.Contains(s.ConjugationURL, "{infinitive}") {
		return fmt.Errorf("sources.conjugation_url must contain {infinitive} (got %q)", s.ConjugationURL)
	}
	return nil
}
