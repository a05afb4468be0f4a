package config

// Template is the commented config written by "marino init". It parses to
// the same values as Default.
const Template = `# marino configuration
timezone: ""                       # IANA zone used to resolve "hoy", "mañana"...; empty = local

embedding:
  provider: local                  # local | ollama | genai
  dimensions: 512                  # local hashing engine only
  ollama_endpoint: http://localhost:11434
  ollama_model: embeddinggemma
  genai_api_key: ${GEMINI_API_KEY}
  genai_model: gemini-embedding-001
  task_type: SEMANTIC_SIMILARITY
  cache_size: 1024                 # cached query embeddings
  timeout: 5s                      # per message
  init_timeout: 60s                # model warm-up and index build
  retry_backoff: 1m                # wait before retrying a failed warm-up

intent:
  threshold: 0.6
  index_strategy: first            # first | mean
  catalog_path: ""                 # YAML file overriding the built-in examples

dialogue:
  seed: 0                          # 0 = random reply selection

server:
  port: 8080

outbox:
  dir: .marino/reminders

notifier:
  provider: ""                     # slack
  webhook_url: ${SLACK_WEBHOOK_URL}
`
