package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
timezone: Europe/Madrid
embedding:
  provider: ollama
  ollama_endpoint: http://gpu-box:11434
  ollama_model: nomic-embed-text
  cache_size: 64
  timeout: 2s
  init_timeout: 30s
  retry_backoff: 10s
intent:
  threshold: 0.75
  index_strategy: mean
  catalog_path: intents.yaml
dialogue:
  seed: 42
server:
  port: 9090
outbox:
  dir: /var/lib/marino
notifier:
  provider: slack
  webhook_url: https://hooks.slack.com/xxx
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "marino.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Madrid", cfg.Timezone)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "http://gpu-box:11434", cfg.Embedding.OllamaEndpoint)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.OllamaModel)
	assert.Equal(t, 64, cfg.Embedding.CacheSize)
	assert.Equal(t, 2*time.Second, cfg.Embedding.Timeout.Duration)
	assert.Equal(t, 30*time.Second, cfg.Embedding.InitTimeout.Duration)
	assert.Equal(t, 10*time.Second, cfg.Embedding.RetryBackoff.Duration)
	assert.Equal(t, 0.75, cfg.Intent.Threshold)
	assert.Equal(t, "mean", cfg.Intent.IndexStrategy)
	assert.Equal(t, "intents.yaml", cfg.Intent.CatalogPath)
	assert.Equal(t, uint64(42), cfg.Dialogue.Seed)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/lib/marino", cfg.Outbox.Dir)
	assert.Equal(t, "slack", cfg.Notifier.Provider)
	assert.Equal(t, "https://hooks.slack.com/xxx", cfg.Notifier.WebhookURL)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Embedding.Provider)
	assert.Equal(t, 512, cfg.Embedding.Dimensions)
	assert.Equal(t, 1024, cfg.Embedding.CacheSize)
	assert.Equal(t, 5*time.Second, cfg.Embedding.Timeout.Duration)
	assert.Equal(t, 60*time.Second, cfg.Embedding.InitTimeout.Duration)
	assert.Equal(t, time.Minute, cfg.Embedding.RetryBackoff.Duration)
	assert.Equal(t, 0.6, cfg.Intent.Threshold)
	assert.Equal(t, "first", cfg.Intent.IndexStrategy)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ".marino/reminders", cfg.Outbox.Dir)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("MARINO_GEMINI_KEY", "key-123")
	t.Setenv("MARINO_HOOK", "https://hooks.slack.com/abc")

	yaml := `
embedding:
  provider: genai
  genai_api_key: ${MARINO_GEMINI_KEY}
notifier:
  provider: slack
  webhook_url: ${MARINO_HOOK}
`
	cfg, err := Load(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.Embedding.GenAIAPIKey)
	assert.Equal(t, "https://hooks.slack.com/abc", cfg.Notifier.WebhookURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/marino.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "marino.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOrDefault_InvalidFileStillFails(t *testing.T) {
	_, err := LoadOrDefault(writeConfig(t, "intent:\n  threshold: 2\n"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "embedding: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "embedding:\n  timeout: soon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown provider", "embedding:\n  provider: openai\n", "embedding.provider"},
		{"genai without key", "embedding:\n  provider: genai\n", "embedding.genai_api_key is required"},
		{"threshold above one", "intent:\n  threshold: 1.5\n", "intent.threshold"},
		{"negative threshold", "intent:\n  threshold: -0.1\n", "intent.threshold"},
		{"bad strategy", "intent:\n  index_strategy: max\n", "intent.index_strategy"},
		{"negative timeout", "embedding:\n  timeout: -1s\n", "embedding.timeout must be positive"},
		{"negative cache", "embedding:\n  cache_size: -1\n", "embedding.cache_size"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"webhook missing", "notifier:\n  provider: slack\n", "notifier.webhook_url is required"},
		{"unknown notifier", "notifier:\n  provider: teams\n  webhook_url: https://x\n", "notifier.provider"},
		{"bad timezone", "timezone: Mars/Olympus\n", "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ValidationAggregatesErrors(t *testing.T) {
	yaml := `
embedding:
  provider: genai
intent:
  threshold: 3
  index_strategy: median
`
	_, err := Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding.genai_api_key")
	assert.Contains(t, err.Error(), "intent.threshold")
	assert.Contains(t, err.Error(), "intent.index_strategy")
}

func TestLoad_NotifierOptional(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8081\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Notifier.Provider)
}

func TestTemplate_ParsesToDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SLACK_WEBHOOK_URL", "")

	cfg, err := Parse([]byte(Template))
	require.NoError(t, err)

	want := Default()
	want.Embedding.OllamaEndpoint = "http://localhost:11434"
	want.Embedding.OllamaModel = "embeddinggemma"
	want.Embedding.GenAIModel = "gemini-embedding-001"
	want.Embedding.TaskType = "SEMANTIC_SIMILARITY"
	assert.Equal(t, want, cfg)
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
