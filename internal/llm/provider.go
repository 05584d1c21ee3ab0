package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/kotoba/internal/model"
)

// Provider generates study notes from a finished report
type Provider interface {
	// Name returns the provider name
	Name() string

	// Notes generates markdown study notes for the report's kanji and words
	Notes(ctx context.Context, req NotesRequest) (*NotesResponse, error)

	// Check reports why the provider cannot be used, or nil when it is reachable
	Check(ctx context.Context) error
}

// NotesRequest contains the input for note generation
type NotesRequest struct {
	Report model.Report

	// Vocabulary is the allowlist of terms the notes may gloss in bold
	Vocabulary []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// NotesResponse contains the generated notes
type NotesResponse struct {
	Notes      string
	Headwords  []string // Bold Japanese terms found in the notes
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama" or "" (disabled)
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  int // seconds

	// StrictVocabulary rejects notes that gloss terms absent from the report
	StrictVocabulary bool

	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled default
func DefaultConfig() Config {
	return Config{
		Timeout:          30,
		StrictVocabulary: true,
		MaxTokens:        800,
	}
}

const systemPrompt = "You are a patient Japanese tutor who writes concise study notes using only the vocabulary you are given."

// maxPromptRows bounds how many rows of each kind go into the prompt
const maxPromptRows = 40

// BuildPrompt renders the default notes prompt from the report rows
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	b.WriteString(`Write study notes in Markdown for a learner reading the Japanese text below.

RULES:
1. Only put terms in **bold** if they appear in the kanji or word lists below.
2. Do not invent readings or meanings; reuse the ones given.
3. Group words by part of speech and point out verb forms (e.g. たい, ます, た endings).
4. Finish with three short practice sentences that reuse the listed words.

`)
	fmt.Fprintf(&b, "Text:\n%s\n\n", report.Input)

	b.WriteString("Kanji (character | kun | on | grade | meanings):\n")
	for i, k := range report.Kanji {
		if i >= maxPromptRows {
			fmt.Fprintf(&b, "... and %d more\n", len(report.Kanji)-maxPromptRows)
			break
		}
		if k.LookupFailed {
			continue
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n", k.Character, k.KunReading, k.OnReading, k.GradeLabel(), strings.Join(k.Meanings, ", "))
	}
	if len(report.Kanji) == 0 {
		b.WriteString("(none)\n")
	}

	b.WriteString("\nWords (word | reading | part of speech | meaning):\n")
	for i, w := range report.Words {
		if i >= maxPromptRows {
			fmt.Fprintf(&b, "... and %d more\n", len(report.Words)-maxPromptRows)
			break
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s\n", w.Word, w.JapaneseReading, w.PartOfSpeech, w.EnglishMeaning)
	}
	if len(report.Words) == 0 {
		b.WriteString("(none)\n")
	}

	return b.String()
}

// VocabularyOf lists every kanji and word of the report, readings included
func VocabularyOf(report model.Report) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, k := range report.Kanji {
		add(k.Character)
	}
	for _, w := range report.Words {
		add(w.Word)
		add(w.JapaneseReading)
	}
	return out
}

var boldPattern = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)

// japanesePattern matches kana and the CJK unified block
var japanesePattern = regexp.MustCompile(`[\p{Hiragana}\p{Katakana}\p{Han}]`)

// extractHeadwords returns the distinct bold terms that contain Japanese script
func extractHeadwords(notes string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range boldPattern.FindAllStringSubmatch(notes, -1) {
		term := strings.TrimSpace(m[1])
		if !japanesePattern.MatchString(term) || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}

// checkVocabulary rejects headwords that are not in the allowlist
func checkVocabulary(headwords []string, vocabulary []string) error {
	allowed := make(map[string]bool, len(vocabulary))
	for _, v := range vocabulary {
		allowed[v] = true
	}
	for _, h := range headwords {
		if !allowed[h] {
			return fmt.Errorf("vocabulary leak: notes gloss %q which is not in the report", h)
		}
	}
	return nil
}
