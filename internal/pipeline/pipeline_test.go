package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/kotoba/internal/lookup"
	"github.com/ppiankov/kotoba/internal/model"
)

type fakeTokenizer struct {
	morphemes []model.Morpheme
	err       error
}

func (f *fakeTokenizer) Tokenize(ctx context.Context, text string) ([]model.Morpheme, error) {
	return f.morphemes, f.err
}

type fakeKanjiLookup struct {
	infos map[string]model.KanjiInfo
	fail  map[string]error
	calls []string
}

func (f *fakeKanjiLookup) LookupKanji(ctx context.Context, c string) (model.KanjiInfo, error) {
	f.calls = append(f.calls, c)
	if err, ok := f.fail[c]; ok {
		return model.KanjiInfo{}, err
	}
	if info, ok := f.infos[c]; ok {
		return info, nil
	}
	return model.KanjiInfo{Character: c, Meanings: []string{}}, nil
}

type fakeWordLookup struct {
	infos map[string]model.WordInfo
	// failOnce makes the first lookup of a word fail
	failOnce map[string]bool
	calls    map[string]int
}

func newFakeWordLookup(infos map[string]model.WordInfo) *fakeWordLookup {
	return &fakeWordLookup{infos: infos, failOnce: map[string]bool{}, calls: map[string]int{}}
}

func (f *fakeWordLookup) LookupWord(ctx context.Context, w string) (model.WordInfo, error) {
	f.calls[w]++
	if f.failOnce[w] && f.calls[w] == 1 {
		return model.WordInfo{}, fmt.Errorf("jisho %s: %w", w, &lookup.StatusError{Code: 503})
	}
	if info, ok := f.infos[w]; ok {
		return info, nil
	}
	return model.WordInfo{}, fmt.Errorf("jisho %s: %w", w, lookup.ErrNotFound)
}

func (f *fakeWordLookup) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func grade(n int) *int { return &n }

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func morphs(pairs ...any) []model.Morpheme {
	var out []model.Morpheme
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.Morpheme{Surface: pairs[i].(string), POS: pairs[i+1].(model.PartOfSpeech)})
	}
	return out
}

func newTestPipeline(t *testing.T, tok *fakeTokenizer, kanji *fakeKanjiLookup, words *fakeWordLookup, policy model.KanjiFailurePolicy) *Pipeline {
	t.Helper()
	p, err := New(Deps{Tokenizer: tok, Kanji: kanji, Words: words, Clock: fixedClock, Policy: policy})
	require.NoError(t, err)
	return p
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	_, err = New(Deps{Tokenizer: &fakeTokenizer{}, Kanji: &fakeKanjiLookup{}, Words: newFakeWordLookup(nil), Policy: "retry"})
	assert.Error(t, err)
}

func TestRun_EmptyInput(t *testing.T) {
	p := newTestPipeline(t, &fakeTokenizer{}, &fakeKanjiLookup{}, newFakeWordLookup(nil), "")
	_, err := p.Run(context.Background(), "text", "  \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestRun_EndToEnd(t *testing.T) {
	text := "2017年のベストカバーを選ぶ祭典"
	tok := &fakeTokenizer{morphemes: morphs(
		"2017", model.POSNoun,
		"年", model.POSSuffix,
		"の", model.POSParticle,
		"ベスト", model.POSNoun,
		"カバー", model.POSNoun,
		"を", model.POSParticle,
		"選ぶ", model.POSVerb,
		"祭典", model.POSNoun,
	)}
	kanji := &fakeKanjiLookup{infos: map[string]model.KanjiInfo{
		"年": {Character: "年", Grade: grade(1), Meanings: []string{"year"}},
		"選": {Character: "選", Grade: grade(4), Meanings: []string{"elect"}},
		"祭": {Character: "祭", Grade: grade(3), Meanings: []string{"ritual"}},
		"典": {Character: "典", Grade: grade(4), Meanings: []string{"code"}},
	}}
	words := newFakeWordLookup(map[string]model.WordInfo{
		"年":   {Word: "年", JapaneseReading: "とし", PartOfSpeech: "Noun", EnglishMeaning: "year"},
		"ベスト": {Word: "ベスト", JapaneseReading: "ベスト", PartOfSpeech: "Noun", EnglishMeaning: "best"},
		"選ぶ":  {Word: "選ぶ", JapaneseReading: "えらぶ", PartOfSpeech: "Godan verb", EnglishMeaning: "to choose"},
		"祭典":  {Word: "祭典", JapaneseReading: "さいてん", PartOfSpeech: "Noun", EnglishMeaning: "festival"},
	})

	p := newTestPipeline(t, tok, kanji, words, model.KanjiFailureFail)
	report, err := p.Run(context.Background(), "text", text)
	require.NoError(t, err)

	assert.Equal(t, []string{"年", "選", "祭", "典"}, report.KanjiCharacters)
	assert.Equal(t, []string{"年", "選", "祭", "典"}, kanji.calls)

	var order []string
	for _, k := range report.Kanji {
		order = append(order, k.Character)
	}
	assert.Equal(t, []string{"年", "祭", "選", "典"}, order, "grade ascending, ties in lookup order")

	var got []string
	for _, w := range report.Words {
		got = append(got, w.Word)
	}
	assert.Equal(t, []string{"年", "ベスト", "選ぶ", "祭典"}, got)

	// の and を are single kana; never sent to the lookup
	assert.Zero(t, words.calls["の"])
	assert.Zero(t, words.calls["を"])
	assert.Equal(t, 2, report.Stats.WordsIneligible)
	assert.Equal(t, 6, report.Stats.WordLookups)
	assert.Equal(t, 2, report.Stats.WordsNotFound) // 2017, カバー

	assert.Equal(t, fixedClock(), report.CreatedAt)
	assert.Len(t, report.RunID, 26)
	assert.Equal(t, "text", report.Source)
}

func TestRun_WordDedup(t *testing.T) {
	tok := &fakeTokenizer{morphemes: morphs(
		"番組", model.POSNoun,
		"、", model.POSSymbol,
		"番組", model.POSNoun,
		"、", model.POSSymbol,
		"番組", model.POSNoun,
	)}
	words := newFakeWordLookup(map[string]model.WordInfo{
		"番組": {Word: "番組", JapaneseReading: "ばんぐみ", PartOfSpeech: "Noun", EnglishMeaning: "program"},
	})

	p := newTestPipeline(t, tok, &fakeKanjiLookup{}, words, "")
	report, err := p.Run(context.Background(), "text", "番組、番組、番組")
	require.NoError(t, err)

	require.Len(t, report.Words, 1)
	assert.Equal(t, "番組", report.Words[0].Word)
	assert.Equal(t, 1, words.calls["番組"])
	assert.Zero(t, words.calls["、"])
	assert.Equal(t, 2, report.Stats.DuplicatesSkipped)
}

func TestRun_FailedWordRetriedOnRecurrence(t *testing.T) {
	tok := &fakeTokenizer{morphemes: morphs(
		"音楽", model.POSNoun,
		"と", model.POSParticle,
		"音楽", model.POSNoun,
		"と", model.POSParticle,
		"音楽", model.POSNoun,
	)}
	words := newFakeWordLookup(map[string]model.WordInfo{
		"音楽": {Word: "音楽", JapaneseReading: "おんがく", PartOfSpeech: "Noun", EnglishMeaning: "music"},
	})
	words.failOnce["音楽"] = true

	p := newTestPipeline(t, tok, &fakeKanjiLookup{}, words, "")
	report, err := p.Run(context.Background(), "text", "音楽と音楽と音楽")
	require.NoError(t, err)

	require.Len(t, report.Words, 1)
	assert.Equal(t, "おんがく", report.Words[0].JapaneseReading)
	assert.Equal(t, 2, words.calls["音楽"], "failed first, succeeded second, skipped third")
	assert.Equal(t, 1, report.Stats.DuplicatesSkipped)
	assert.Equal(t, 1, report.Stats.WordsNotFound)
}

func TestRun_SingleCharacterEligibility(t *testing.T) {
	tok := &fakeTokenizer{morphemes: morphs(
		"人", model.POSNoun,
		"ア", model.POSOther,
		"。", model.POSSymbol,
		"A", model.POSNoun,
		" ", model.POSSymbol,
	)}
	words := newFakeWordLookup(map[string]model.WordInfo{
		"人": {Word: "人", JapaneseReading: "ひと", PartOfSpeech: "Noun", EnglishMeaning: "person"},
	})

	p := newTestPipeline(t, tok, &fakeKanjiLookup{}, words, "")
	report, err := p.Run(context.Background(), "text", "人ア。A 人")
	require.NoError(t, err)

	assert.Equal(t, 1, words.total(), "only the single kanji is looked up")
	assert.Equal(t, 1, words.calls["人"])
	assert.Equal(t, 4, report.Stats.WordsIneligible)
	require.Len(t, report.Words, 1)
}

func TestRun_KanjiFailurePolicies(t *testing.T) {
	newKanji := func() *fakeKanjiLookup {
		return &fakeKanjiLookup{
			infos: map[string]model.KanjiInfo{
				"外": {Character: "外", Grade: grade(2), Meanings: []string{"outside"}},
				"人": {Character: "人", Grade: grade(1), Meanings: []string{"person"}},
			},
			fail: map[string]error{"邦": errors.New("fetch: connection reset by peer")},
		}
	}
	tok := &fakeTokenizer{morphemes: morphs("外邦人", model.POSNoun)}

	t.Run("fail", func(t *testing.T) {
		kanji := newKanji()
		p := newTestPipeline(t, tok, kanji, newFakeWordLookup(nil), model.KanjiFailureFail)
		_, err := p.Run(context.Background(), "text", "外邦人")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lookup kanji 邦")
		assert.Equal(t, []string{"外", "邦"}, kanji.calls, "aborts at the failing character")
	})

	t.Run("sentinel", func(t *testing.T) {
		kanji := newKanji()
		p := newTestPipeline(t, tok, kanji, newFakeWordLookup(nil), model.KanjiFailureSentinel)
		report, err := p.Run(context.Background(), "text", "外邦人")
		require.NoError(t, err)

		require.Len(t, report.Kanji, 3)
		assert.Equal(t, "人", report.Kanji[0].Character)
		assert.Equal(t, "外", report.Kanji[1].Character)

		failed := report.Kanji[2]
		assert.Equal(t, "邦", failed.Character)
		assert.True(t, failed.LookupFailed)
		assert.Nil(t, failed.Grade)
		assert.Equal(t, []string{"lookup failed"}, failed.Meanings)
		assert.Equal(t, 1, report.Stats.KanjiFailed)
	})
}

func TestRun_TokenizerFailureIsFatal(t *testing.T) {
	tok := &fakeTokenizer{err: errors.New("dictionary missing")}
	p := newTestPipeline(t, tok, &fakeKanjiLookup{}, newFakeWordLookup(nil), "")

	_, err := p.Run(context.Background(), "text", "今日")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokenize")
}

func TestRun_CancelledContext(t *testing.T) {
	tok := &fakeTokenizer{morphemes: morphs("今日", model.POSNoun)}
	p := newTestPipeline(t, tok, &fakeKanjiLookup{}, newFakeWordLookup(nil), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, "text", "今日")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortByGrade(t *testing.T) {
	rows := []model.KanjiInfo{
		{Character: "a", Grade: grade(3)},
		{Character: "b"},
		{Character: "c", Grade: grade(1)},
		{Character: "d", Grade: grade(3)},
		{Character: "e"},
		{Character: "f", Grade: grade(8)},
		{Character: "g", Grade: grade(1)},
	}
	SortByGrade(rows)

	var order []string
	for _, r := range rows {
		order = append(order, r.Character)
	}
	assert.Equal(t, []string{"c", "g", "a", "d", "f", "b", "e"}, order)
}

func TestEligibleForLookup(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"人", true},
		{"今日", true},
		{"です", true},
		{"は", false},
		{"ア", false},
		{"、", false},
		{"7", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eligibleForLookup(tt.word), "word %q", tt.word)
	}
}

func TestEligibleForLookup_BlankRuns(t *testing.T) {
	for _, word := range []string{"  ", " \t", "\u3000\u3000", "\n"} {
		assert.False(t, eligibleForLookup(word), "whitespace run %q is never sent to the dictionary", word)
	}
	assert.True(t, eligibleForLookup(" 人"), "padding does not hide a real word")
}
