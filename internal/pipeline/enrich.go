package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/kotoba/internal/extract"
	"github.com/ppiankov/kotoba/internal/lookup"
	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/util"
)

// failedKanjiMeaning is the single meaning of a sentinel row
const failedKanjiMeaning = "lookup failed"

// enrichKanji looks up each character once, in order, then sorts by grade
func (p *Pipeline) enrichKanji(ctx context.Context, log *slog.Logger, chars []string, stats *model.RunStats) ([]model.KanjiInfo, error) {
	rows := make([]model.KanjiInfo, 0, len(chars))

	for _, c := range chars {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enrich kanji: %w", err)
		}

		stats.KanjiLookups++
		info, err := p.kanji.LookupKanji(ctx, c)
		if err != nil {
			stats.KanjiFailed++
			if p.policy == model.KanjiFailureFail {
				log.ErrorContext(ctx, "kanji lookup failed", slog.String("kanji", c), slog.String("error", err.Error()))
				return nil, fmt.Errorf("lookup kanji %s: %w", c, err)
			}
			log.WarnContext(ctx, "kanji lookup failed, keeping sentinel row", slog.String("kanji", c), slog.String("error", err.Error()))
			info = failedKanji(c)
		}
		rows = append(rows, info)
	}

	SortByGrade(rows)
	return rows, nil
}

func failedKanji(c string) model.KanjiInfo {
	return model.KanjiInfo{
		Character:    c,
		Meanings:     []string{failedKanjiMeaning},
		LookupFailed: true,
	}
}

// SortByGrade orders rows by grade ascending. Rows without a grade go last.
// Equal grades keep their lookup order.
func SortByGrade(rows []model.KanjiInfo) {
	slices.SortStableFunc(rows, func(a, b model.KanjiInfo) int {
		switch {
		case a.Grade == nil && b.Grade == nil:
			return 0
		case a.Grade == nil:
			return 1
		case b.Grade == nil:
			return -1
		}
		return *a.Grade - *b.Grade
	})
}

// enrichWords emits at most one row per distinct word, in first-success order.
// A word joins the seen set only after a successful lookup, so a failed word is tried again when it recurs.
func (p *Pipeline) enrichWords(ctx context.Context, log *slog.Logger, words []string, stats *model.RunStats) ([]model.WordInfo, error) {
	seen := util.NewOrderedSet[string]()
	rows := make([]model.WordInfo, 0, len(words))

	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enrich words: %w", err)
		}

		if seen.Contains(w) {
			stats.DuplicatesSkipped++
			continue
		}

		res := p.resolveWord(ctx, w, stats)
		if !res.Found {
			log.DebugContext(ctx, "word not found", slog.String("word", w), slog.String("reason", res.Reason.Error()))
			continue
		}

		seen.Add(w)
		rows = append(rows, res.Info)
	}

	return rows, nil
}

// resolveWord never returns an error: every failure is a NotFound result
func (p *Pipeline) resolveWord(ctx context.Context, word string, stats *model.RunStats) lookup.WordResult {
	if !eligibleForLookup(word) {
		stats.WordsIneligible++
		return lookup.NotFound(lookup.ErrIneligible)
	}

	stats.WordLookups++
	info, err := p.words.LookupWord(ctx, word)
	if err != nil {
		stats.WordsNotFound++
		return lookup.NotFound(err)
	}
	return lookup.Found(info)
}

// eligibleForLookup rejects single code points that are not kanji.
// Whitespace-only runs of any length are rejected too: the dictionary has no entry for them.
func eligibleForLookup(word string) bool {
	if strings.TrimSpace(word) == "" {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return extract.IsKanji(r)
	}
	return true
}
