package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata" // timezone must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the config when --config is not given.
const DefaultPath = "marino.yaml"

// Duration wraps time.Duration with YAML unmarshaling from strings like "45m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config is the top-level marino configuration.
type Config struct {
	Timezone  string          `yaml:"timezone"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Intent    IntentConfig    `yaml:"intent"`
	Dialogue  DialogueConfig  `yaml:"dialogue"`
	Server    ServerConfig    `yaml:"server"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Notifier  NotifierConfig  `yaml:"notifier"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	Provider       string   `yaml:"provider"` // local | ollama | genai
	Dimensions     int      `yaml:"dimensions"`
	OllamaEndpoint string   `yaml:"ollama_endpoint"`
	OllamaModel    string   `yaml:"ollama_model"`
	GenAIAPIKey    string   `yaml:"genai_api_key"`
	GenAIModel     string   `yaml:"genai_model"`
	TaskType       string   `yaml:"task_type"`
	CacheSize      int      `yaml:"cache_size"`
	Timeout        Duration `yaml:"timeout"`
	InitTimeout    Duration `yaml:"init_timeout"`
	RetryBackoff   Duration `yaml:"retry_backoff"`
}

type IntentConfig struct {
	Threshold     float64 `yaml:"threshold"`
	IndexStrategy string  `yaml:"index_strategy"` // first | mean
	CatalogPath   string  `yaml:"catalog_path"`
}

type DialogueConfig struct {
	Seed uint64 `yaml:"seed"` // 0 = random
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type OutboxConfig struct {
	Dir string `yaml:"dir"`
}

type NotifierConfig struct {
	Provider   string `yaml:"provider"`
	WebhookURL string `yaml:"webhook_url"`
}

const (
	defaultProvider      = "local"
	defaultDimensions    = 512
	defaultCacheSize     = 1024
	defaultTimeout       = 5 * time.Second
	defaultInitTimeout   = 60 * time.Second
	defaultRetryBackoff  = time.Minute
	defaultThreshold     = 0.6
	defaultIndexStrategy = "first"
	defaultPort          = 8080
	defaultOutboxDir     = ".marino/reminders"
)

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads, expands env vars, parses, and validates a marino config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse expands env vars in data, then parses and validates it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	e := &cfg.Embedding
	if e.Provider == "" {
		e.Provider = defaultProvider
	}
	if e.Dimensions == 0 {
		e.Dimensions = defaultDimensions
	}
	if e.CacheSize == 0 {
		e.CacheSize = defaultCacheSize
	}
	if e.Timeout.Duration == 0 {
		e.Timeout.Duration = defaultTimeout
	}
	if e.InitTimeout.Duration == 0 {
		e.InitTimeout.Duration = defaultInitTimeout
	}
	if e.RetryBackoff.Duration == 0 {
		e.RetryBackoff.Duration = defaultRetryBackoff
	}
	if cfg.Intent.Threshold == 0 {
		cfg.Intent.Threshold = defaultThreshold
	}
	if cfg.Intent.IndexStrategy == "" {
		cfg.Intent.IndexStrategy = defaultIndexStrategy
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Outbox.Dir == "" {
		cfg.Outbox.Dir = defaultOutboxDir
	}
}

// Location returns the configured time zone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func validate(cfg *Config) error {
	var errs []error

	if _, err := cfg.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", cfg.Timezone, err))
	}

	e := cfg.Embedding
	switch e.Provider {
	case "local", "ollama":
		// valid
	case "genai":
		if e.GenAIAPIKey == "" {
			errs = append(errs, errors.New("embedding.genai_api_key is required when embedding.provider is genai"))
		}
	default:
		errs = append(errs, fmt.Errorf("embedding.provider must be \"local\", \"ollama\" or \"genai\", got %q", e.Provider))
	}
	if e.Dimensions < 0 {
		errs = append(errs, errors.New("embedding.dimensions must not be negative"))
	}
	if e.CacheSize < 0 {
		errs = append(errs, errors.New("embedding.cache_size must not be negative"))
	}
	if e.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("embedding.timeout must be positive"))
	}
	if e.InitTimeout.Duration <= 0 {
		errs = append(errs, errors.New("embedding.init_timeout must be positive"))
	}
	if e.RetryBackoff.Duration <= 0 {
		errs = append(errs, errors.New("embedding.retry_backoff must be positive"))
	}

	if t := cfg.Intent.Threshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("intent.threshold must be in (0, 1], got %v", t))
	}
	switch cfg.Intent.IndexStrategy {
	case "first", "mean":
		// valid
	default:
		errs = append(errs, fmt.Errorf("intent.index_strategy must be \"first\" or \"mean\", got %q", cfg.Intent.IndexStrategy))
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port))
	}

	// Only validate notifier fields when provider is set.
	if cfg.Notifier.Provider != "" {
		if cfg.Notifier.Provider != "slack" {
			errs = append(errs, fmt.Errorf("notifier.provider must be \"slack\", got %q", cfg.Notifier.Provider))
		}
		if cfg.Notifier.WebhookURL == "" {
			errs = append(errs, errors.New("notifier.webhook_url is required when notifier.provider is set"))
		}
	}

	return errors.Join(errs...)
}
