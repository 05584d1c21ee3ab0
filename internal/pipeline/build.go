package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/kotoba/internal/lookup"
	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/ratelimit"
	"github.com/ppiankov/kotoba/internal/tokenize"
)

// NewFromConfig wires the production collaborators. The Pipeline and the Fetcher share one per-host limiter.
func NewFromConfig(cfg *model.Config, logger *slog.Logger) (*Pipeline, *Fetcher, error) {
	tok, err := tokenize.NewKagome(cfg.Tokenizer.Dict)
	if err != nil {
		return nil, nil, fmt.Errorf("create tokenizer: %w", err)
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	kanji, words := lookup.NewClientsFromConfig(cfg, limiter, logger)

	p, err := New(Deps{
		Tokenizer: tok,
		Kanji:     kanji,
		Words:     words,
		Logger:    logger,
		Policy:    cfg.Policy.KanjiFailure,
	})
	if err != nil {
		return nil, nil, err
	}

	return p, NewFetcher(cfg.HTTP, limiter, logger), nil
}
