package pipeline

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ppiankov/kotoba/internal/extract"
	"github.com/ppiankov/kotoba/internal/lookup"
	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/tokenize"
)

// ErrEmptyInput is returned when there is no text to process
var ErrEmptyInput = errors.New("empty input text")

// Deps are the collaborators of one Pipeline
type Deps struct {
	Tokenizer tokenize.Tokenizer
	Kanji     lookup.KanjiLookup
	Words     lookup.WordLookup
	Clock     func() time.Time // Defaults to time.Now
	Logger    *slog.Logger
	Policy    model.KanjiFailurePolicy
}

// Pipeline runs extraction and enrichment for one input text
type Pipeline struct {
	tokenizer tokenize.Tokenizer
	kanji     lookup.KanjiLookup
	words     lookup.WordLookup
	clock     func() time.Time
	policy    model.KanjiFailurePolicy
	entropy   *ulid.MonotonicEntropy
	log       *slog.Logger
}

// New creates a Pipeline
func New(deps Deps) (*Pipeline, error) {
	if deps.Tokenizer == nil {
		return nil, fmt.Errorf("pipeline: tokenizer is required")
	}
	if deps.Kanji == nil || deps.Words == nil {
		return nil, fmt.Errorf("pipeline: kanji and word lookups are required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	policy := deps.Policy
	switch policy {
	case "":
		policy = model.KanjiFailureFail
	case model.KanjiFailureFail, model.KanjiFailureSentinel:
	default:
		return nil, fmt.Errorf("pipeline: unknown kanji failure policy %q (supported: fail, sentinel)", policy)
	}

	return &Pipeline{
		tokenizer: deps.Tokenizer,
		kanji:     deps.Kanji,
		words:     deps.Words,
		clock:     clock,
		policy:    policy,
		entropy:   ulid.Monotonic(rand.Reader, 0),
		log:       logger.With("component", "pipeline"),
	}, nil
}

// Run collects kanji and words from text and enriches both.
// Word lookup failures never abort the run; kanji failures follow the configured policy.
func (p *Pipeline) Run(ctx context.Context, source string, text string) (*model.Report, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	now := p.clock()
	runID := ulid.MustNew(ulid.Timestamp(now), p.entropy).String()
	log := p.log.With("run_id", runID)

	kanjiChars := extract.CollectKanji(text)

	morphemes, err := p.tokenizer.Tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	words := extract.ReconstructWords(morphemes)

	log.InfoContext(ctx, "input analyzed",
		slog.String("source", source),
		slog.Int("kanji", len(kanjiChars)),
		slog.Int("morphemes", len(morphemes)),
		slog.Int("words", len(words)),
	)

	report := &model.Report{
		RunID:              runID,
		CreatedAt:          now,
		Source:             source,
		Input:              text,
		KanjiCharacters:    kanjiChars,
		ReconstructedWords: words,
	}

	kanjiRows, err := p.enrichKanji(ctx, log, kanjiChars, &report.Stats)
	if err != nil {
		return nil, err
	}
	report.Kanji = kanjiRows

	wordRows, err := p.enrichWords(ctx, log, words, &report.Stats)
	if err != nil {
		return nil, err
	}
	report.Words = wordRows

	log.InfoContext(ctx, "enrichment complete",
		slog.Int("kanji_rows", len(report.Kanji)),
		slog.Int("word_rows", len(report.Words)),
		slog.Int("words_not_found", report.Stats.WordsNotFound),
		slog.Int("duplicates_skipped", report.Stats.DuplicatesSkipped),
	)

	return report, nil
}
