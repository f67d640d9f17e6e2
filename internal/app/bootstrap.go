package app

import (
	"context"
	"fmt"

	"barstock/internal/ai"
	"barstock/internal/config"
	"barstock/internal/core"
	"barstock/internal/events"
	"barstock/internal/logger"
)

// Bootstrap builds a seeded session from cfg: the auditor for the resolved
// AI provider and, when an AMQP URL is set, the event publisher. A broker
// that cannot be reached is logged and skipped. The returned func releases
// the broker connection.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logger.Logger) (ApplicationService, func(), error) {
	auditor, err := newAuditor(ctx, cfg.AI)
	if err != nil {
		return nil, nil, err
	}
	if auditor == nil {
		log.Warn().Msg("no AI provider configured; audits will return the fallback report")
	} else {
		log.Info().Str("provider", cfg.AI.ResolvedProvider()).Msg("audit provider ready")
	}

	var publisher *events.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = events.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Warn().Err(err).Msg("event broker unavailable; continuing without events")
			publisher = nil
		}
	}

	svc := NewAppService(core.NewSeededLedger(), auditor, publisher, log)
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}
	return svc, cleanup, nil
}

func newAuditor(ctx context.Context, cfg config.AIConfig) (ai.Auditor, error) {
	var a ai.Auditor
	switch cfg.ResolvedProvider() {
	case config.ProviderOpenAI:
		a = ai.NewOpenAIAuditor(cfg.OpenAIAPIKey, cfg.Model)
	case config.ProviderGemini:
		g, err := ai.NewGeminiAuditor(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini auditor: %w", err)
		}
		a = g
	default:
		return nil, nil
	}
	return ai.WithTimeout(a, cfg.Timeout), nil
}
