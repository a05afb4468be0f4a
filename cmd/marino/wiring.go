package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shahar-caura/marino/internal/config"
	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/embedding"
	"github.com/shahar-caura/marino/internal/extract"
	"github.com/shahar-caura/marino/internal/intent"
	"github.com/shahar-caura/marino/internal/notifier"
	"github.com/shahar-caura/marino/internal/outbox"
)

// app holds everything a command needs, wired from config.
type app struct {
	cfg      *config.Config
	engine   embedding.Engine
	semantic *intent.Semantic
	bot      *dialogue.Bot
	store    *outbox.Store
	notifier notifier.Notifier
	registry *prometheus.Registry
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func wireApp(flags *rootFlags, logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	e := cfg.Embedding
	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       e.Provider,
		Dimensions:     e.Dimensions,
		OllamaEndpoint: e.OllamaEndpoint,
		OllamaModel:    e.OllamaModel,
		GenAIAPIKey:    e.GenAIAPIKey,
		GenAIModel:     e.GenAIModel,
		TaskType:       e.TaskType,
		CacheSize:      e.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding engine: %w", err)
	}

	catalog := intent.DefaultCatalog()
	if cfg.Intent.CatalogPath != "" {
		if catalog, err = intent.LoadCatalog(cfg.Intent.CatalogPath); err != nil {
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := intent.MustNewMetrics(reg)

	sem := intent.NewSemantic(engine, catalog,
		intent.WithThreshold(cfg.Intent.Threshold),
		intent.WithIndexStrategy(intent.IndexStrategy(cfg.Intent.IndexStrategy)),
		intent.WithTimeout(e.Timeout.Duration),
		intent.WithInitTimeout(e.InitTimeout.Duration),
		intent.WithRetryBackoff(e.RetryBackoff.Duration),
		intent.WithLogger(logger),
		intent.WithMetrics(metrics),
	)

	bot := dialogue.New(dialogue.Options{
		Classifier: intent.NewChain(logger, metrics, sem, intent.NewRegex(nil)),
		Extractor:  extract.NewExtractor(extract.NewDates(extract.WithLocation(loc))),
		Rand:       dialogue.NewPicker(cfg.Dialogue.Seed),
		Logger:     logger,
	})

	n, err := notifier.FromConfig(cfg.Notifier.Provider, cfg.Notifier.WebhookURL)
	if err != nil {
		return nil, err
	}

	logger.Debug("wired", "engine", engine.Name(), "threshold", cfg.Intent.Threshold, "index_strategy", cfg.Intent.IndexStrategy)

	return &app{
		cfg:      cfg,
		engine:   engine,
		semantic: sem,
		bot:      bot,
		store:    outbox.NewStore(cfg.Outbox.Dir),
		notifier: n,
		registry: reg,
	}, nil
}
