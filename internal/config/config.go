// Package config provides configuration management for the citation search service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "CITESEARCH"

// Config holds all configuration for the citation search service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Solr contains search engine connection settings.
	Solr SolrConfig `mapstructure:"solr"`
	// Search contains result shaping limits.
	Search SearchConfig `mapstructure:"search"`
	// Sentiment contains citation polarity model settings.
	Sentiment SentimentConfig `mapstructure:"sentiment"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing the response. Citation
	// searches fan out to many sequential engine calls, so keep this generous.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
	// MaxSizeMB is the size at which a log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays is the number of days to keep rotated log files.
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
}

// SolrConfig holds settings for the Solr search engine.
type SolrConfig struct {
	// BaseURL is the Solr root, e.g. http://localhost:8983/solr.
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single select call. Zero means no client-side timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second. Zero means unlimited.
	RateLimit float64 `mapstructure:"rate_limit"`
	// BurstSize is the maximum burst of requests allowed.
	BurstSize int `mapstructure:"burst_size"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`
	// MaxResponseBytes caps the decoded body of a select response.
	MaxResponseBytes int64 `mapstructure:"max_response_bytes"`
	// Username is the basic auth user (loaded from CITESEARCH_SOLR_USERNAME env var).
	Username string `mapstructure:"-"`
	// Password is the basic auth password (loaded from CITESEARCH_SOLR_PASSWORD env var).
	Password string `mapstructure:"-"`
	// Collections maps each collection schema to its Solr core name.
	Collections CollectionsConfig `mapstructure:"collections"`
}

// CollectionsConfig names the Solr collections the service reads.
type CollectionsConfig struct {
	// Sentences holds citation-context sentences with citing-paper metadata.
	Sentences string `mapstructure:"sentences"`
	// Metadata holds authoritative arXiv metadata.
	Metadata string `mapstructure:"metadata"`
	// SecondaryMetadata holds DBLP metadata keyed by arXiv identifier.
	SecondaryMetadata string `mapstructure:"secondary_metadata"`
	// References holds citation annotations and cited paper details.
	References string `mapstructure:"references"`
}

// SearchConfig holds limits applied by the search pipeline.
type SearchConfig struct {
	// DefaultRows is used when a request does not specify a row count.
	DefaultRows int `mapstructure:"default_rows"`
	// MaxRows is the largest row count a request may ask for.
	MaxRows int `mapstructure:"max_rows"`
	// MaxQueryLength is the longest accepted query text.
	MaxQueryLength int `mapstructure:"max_query_length"`
	// RowMultiplier scales the engine row count for sorted phrase and metadata searches.
	RowMultiplier int `mapstructure:"row_multiplier"`
	// ReferenceRowCap is the row count of the primary reference search.
	ReferenceRowCap int `mapstructure:"reference_row_cap"`
	// AnnotationMultiplier bounds secondary lookups to rows*AnnotationMultiplier annotations.
	AnnotationMultiplier int `mapstructure:"annotation_multiplier"`
	// EnrichMetadata fills incomplete hits from the metadata collections.
	EnrichMetadata bool `mapstructure:"enrich_metadata"`
}

// SentimentConfig holds citation polarity model settings.
type SentimentConfig struct {
	// Enabled controls whether sentences are annotated with a polarity marker.
	Enabled bool `mapstructure:"enabled"`
	// ModelPath is the location of the exported classifier artifact.
	ModelPath string `mapstructure:"model_path"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading path instead of searching
// the default locations when path is non-empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/citation-search-service")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found is OK, we'll use env vars and defaults
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
// These fields are tagged with mapstructure:"-" to prevent loading from config files.
func loadSecrets(cfg *Config) {
	cfg.Solr.Username = os.Getenv(EnvPrefix + "_SOLR_USERNAME")
	cfg.Solr.Password = os.Getenv(EnvPrefix + "_SOLR_PASSWORD")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 28)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Solr defaults
	v.SetDefault("solr.base_url", "http://localhost:8983/solr")
	v.SetDefault("solr.timeout", "0s")
	v.SetDefault("solr.rate_limit", 0.0)
	v.SetDefault("solr.burst_size", 10)
	v.SetDefault("solr.user_agent", "Helixir-CitationSearch/1.0")
	v.SetDefault("solr.max_response_bytes", 256<<20)
	v.SetDefault("solr.collections.sentences", "papers_plus")
	v.SetDefault("solr.collections.metadata", "metadata_plus")
	v.SetDefault("solr.collections.secondary_metadata", "metadata")
	v.SetDefault("solr.collections.references", "references_plus")

	// Search defaults
	v.SetDefault("search.default_rows", 100)
	v.SetDefault("search.max_rows", 1000)
	v.SetDefault("search.max_query_length", 100)
	v.SetDefault("search.row_multiplier", 10)
	v.SetDefault("search.reference_row_cap", 100000)
	v.SetDefault("search.annotation_multiplier", 10)
	v.SetDefault("search.enrich_metadata", true)

	// Sentiment defaults
	v.SetDefault("sentiment.enabled", true)
	v.SetDefault("sentiment.model_path", "models/citation_model_pipeline.json")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate server ports
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate solr config
	if c.Solr.BaseURL == "" {
		return fmt.Errorf("solr base_url is required")
	}
	u, err := url.Parse(c.Solr.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid solr base_url: %q", c.Solr.BaseURL)
	}
	if c.Solr.RateLimit < 0 {
		return fmt.Errorf("solr rate_limit must not be negative")
	}
	if c.Solr.MaxResponseBytes <= 0 {
		return fmt.Errorf("solr max_response_bytes must be positive")
	}
	cols := c.Solr.Collections
	if cols.Sentences == "" || cols.Metadata == "" || cols.SecondaryMetadata == "" || cols.References == "" {
		return fmt.Errorf("all solr collections must be named")
	}

	// Validate search limits
	if c.Search.MaxRows <= 0 {
		return fmt.Errorf("search max_rows must be positive")
	}
	if c.Search.DefaultRows <= 0 || c.Search.DefaultRows > c.Search.MaxRows {
		return fmt.Errorf("search default_rows (%d) must be between 1 and max_rows (%d)", c.Search.DefaultRows, c.Search.MaxRows)
	}
	if c.Search.MaxQueryLength <= 0 {
		return fmt.Errorf("search max_query_length must be positive")
	}
	if c.Search.RowMultiplier <= 0 {
		return fmt.Errorf("search row_multiplier must be positive")
	}
	if c.Search.ReferenceRowCap <= 0 {
		return fmt.Errorf("search reference_row_cap must be positive")
	}
	if c.Search.AnnotationMultiplier <= 0 {
		return fmt.Errorf("search annotation_multiplier must be positive")
	}

	if c.Sentiment.Enabled && c.Sentiment.ModelPath == "" {
		return fmt.Errorf("sentiment model_path is required when sentiment is enabled")
	}

	return nil
}
