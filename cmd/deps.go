package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/lead-scorer/internal/ai"
	"github.com/spigell/lead-scorer/internal/ai/gemini"
	"github.com/spigell/lead-scorer/internal/csvcodec"
	"github.com/spigell/lead-scorer/internal/notify"
	"github.com/spigell/lead-scorer/internal/scoring"
	"github.com/spigell/lead-scorer/internal/secrets"
	"github.com/spigell/lead-scorer/internal/session"
)

// newNotifier returns nil when no webhook is configured.
func newNotifier(cfg *NotifyConfig, logger *zap.Logger) (notify.Sink, error) {
	if cfg == nil || cfg.Slack == nil {
		return nil, nil
	}

	url, err := secrets.Optional(secrets.Source{
		Name:  "slack webhook url",
		File:  cfg.Slack.WebhookURLFile,
		Value: cfg.Slack.WebhookURL,
	})
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, nil
	}

	webhook, err := notify.NewSlackWebhook(url, cfg.Slack.Timeout, logger.With(zap.String("sink", "slack")))
	if err != nil {
		return nil, err
	}
	return webhook, nil
}

// newIntentScorer falls back to the static layer unless a provider is enabled.
func newIntentScorer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.IntentScorer, error) {
	if cfg == nil || !cfg.Enabled {
		return ai.Static{}, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_max_attempts", cfg.Gemini.MaxAttempts),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxAttempts, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewIntentScorer(generator, cfg.Gemini.RequestsPerSecond, cfg.Gemini.MaxLogLength, logger), nil
}

// newCoordinator wires the scorer, codec and notifier into a session coordinator.
func newCoordinator(ctx context.Context, config *Config, sink notify.Sink, logger *zap.Logger) (*session.Coordinator, error) {
	intent, err := newIntentScorer(ctx, config.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("building intent scorer: %w", err)
	}

	return session.NewCoordinator(
		&session.Config{StorageDir: config.Server.StorageDir},
		&session.Deps{
			Scorer:   scoring.New(intent, config.Scoring.Workers, logger),
			Codec:    csvcodec.Codec{},
			Notifier: sink,
			Logger:   logger,
		},
	)
}
