// Command httpd runs the pain-signal scoring service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/signalmine/painsignal/internal/aggregate"
	"github.com/signalmine/painsignal/internal/api"
	"github.com/signalmine/painsignal/internal/config"
	"github.com/signalmine/painsignal/internal/embedding"
	"github.com/signalmine/painsignal/internal/logger"
	"github.com/signalmine/painsignal/internal/processor"
	"github.com/signalmine/painsignal/internal/rules"
	"github.com/signalmine/painsignal/internal/scorer"
	"github.com/signalmine/painsignal/internal/semantic"
	"github.com/signalmine/painsignal/internal/telemetry"
)

const defaultConfigPath = "config.yml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "painsignal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetConfigPath(defaultConfigPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: cfg.Logging.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting pain-signal service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	table, err := loadRules(cfg, log)
	if err != nil {
		return err
	}

	tp := telemetry.NewProvider()
	sc := scorer.NewScorer(table, log).WithTelemetry(tp)
	aggregator := aggregate.New(log)

	var (
		embedder *embedding.Client
		sem      processor.SemanticStage
	)
	if cfg.Embedding.Enabled {
		embedder = embedding.NewClient(embedding.Config{
			BaseURL:   cfg.Embedding.BaseURL,
			Timeout:   cfg.Embedding.Timeout,
			ChunkSize: cfg.Embedding.ChunkSize,
			RPS:       cfg.Embedding.RPS,
			Burst:     cfg.Embedding.Burst,
		}, log, tp)
		sem = semantic.NewClassifier(embedder, table, log, tp)
		log.Info("semantic stage enabled", logger.String("embedding_url", cfg.Embedding.BaseURL))
	} else {
		log.Info("semantic stage disabled")
	}

	pipeline := processor.NewPipeline(sc, sem, aggregator, cfg.Service.Concurrency, log, tp)
	lexical := processor.NewPipeline(sc, nil, aggregator, cfg.Service.Concurrency, log, tp)

	handler := api.NewHandler(api.HandlerConfig{
		Scorer:     sc,
		Pipeline:   pipeline,
		Lexical:    lexical,
		Aggregator: aggregator,
		Embedding:  healthChecker(embedder),
		BatchLimit: cfg.Service.BatchLimit,
		Service:    cfg.Service.Name,
		Version:    cfg.Service.Version,
		Logger:     log,
	})

	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, tp, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("server stopped")
	}
	return nil
}

// loadRules compiles the rule table, from file when configured.
func loadRules(cfg *config.Config, log logger.Logger) (*rules.Compiled, error) {
	if cfg.Scoring.RulesPath == "" {
		table, err := rules.Default().Compile()
		if err != nil {
			return nil, fmt.Errorf("compile default rules: %w", err)
		}
		log.Info("using built-in rule table", logger.String("rules_version", table.Version))
		return table, nil
	}

	table, err := rules.Load(cfg.Scoring.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", cfg.Scoring.RulesPath, err)
	}
	log.Info("rule table loaded",
		logger.String("path", cfg.Scoring.RulesPath),
		logger.String("rules_version", table.Version),
	)
	return table, nil
}

// healthChecker avoids handing the handler a non-nil interface holding a
// nil *embedding.Client.
func healthChecker(c *embedding.Client) api.EmbeddingHealthChecker {
	if c == nil {
		return nil
	}
	return c
}
