package llm

import (
	"context"

	"traveltodo/internal/config"
	"traveltodo/internal/logger"
)

// New builds the generator selected by cfg.Chatbot.Provider. It never
// fails: a missing credential or client error yields a Disabled generator
// reported as Unavailable.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (Generator, Availability) {
	provider := cfg.Chatbot.Provider
	if provider == "" || provider == config.ProviderNone {
		log.Info().Msg("reply generator disabled, using templates")
		return Disabled{Reason: "no provider configured"}, Unavailable
	}

	pc := cfg.Providers[provider]
	if pc.APIKey == "" {
		log.Warn().Str("provider", provider).Msg("reply generator has no api key, using templates")
		return Disabled{Reason: "missing api key for " + provider}, Unavailable
	}

	timeout := cfg.Chatbot.Timeout()
	if provider == config.ProviderHuggingFace {
		log.Info().Str("provider", provider).Msg("reply generator ready")
		return newHuggingFaceGenerator(pc, timeout), Available
	}

	chat, err := newChatModel(ctx, provider, pc)
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("reply generator init failed, using templates")
		return Disabled{Reason: err.Error()}, Unavailable
	}
	log.Info().Str("provider", provider).Msg("reply generator ready")
	return NewEinoGenerator(provider, chat, timeout), Available
}
