package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/kotoba/internal/model"
)

// Summarizer turns a finished report into study notes. It never changes the report rows.
type Summarizer struct {
	provider Provider
	config   Config
	log      *slog.Logger
}

// NewSummarizer creates a Summarizer; a disabled config yields a Summarizer with no provider
func NewSummarizer(config Config, logger *slog.Logger) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
		log:      logger.With("component", "llm"),
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateNotes returns nil, nil when disabled. Provider failures come back as warnings on a disabled summary.
func (s *Summarizer) GenerateNotes(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider: s.provider.Name(),
		Model:    s.config.Model,
	}

	if len(report.Words) == 0 && len(report.Kanji) == 0 {
		summary.Warnings = append(summary.Warnings, "nothing to summarize: report has no rows")
		return summary, nil
	}

	if err := s.provider.Check(ctx); err != nil {
		s.log.WarnContext(ctx, "llm provider not available", slog.String("provider", s.provider.Name()), slog.String("error", err.Error()))
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM provider %s not available: %v", s.provider.Name(), err))
		return summary, nil
	}

	resp, err := s.provider.Notes(ctx, NotesRequest{
		Report:     report,
		Vocabulary: VocabularyOf(report),
		Model:      s.config.Model,
		MaxTokens:  s.config.MaxTokens,
	})
	if err != nil {
		s.log.WarnContext(ctx, "llm notes failed", slog.String("error", err.Error()))
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("notes generation failed: %v", err))
		return summary, nil
	}

	summary.Enabled = true
	summary.NotesMD = resp.Notes
	summary.Model = resp.Model
	summary.TokensUsed = resp.TokensUsed
	s.log.InfoContext(ctx, "llm notes generated", slog.String("model", resp.Model), slog.Int("tokens", resp.TokensUsed))

	return summary, nil
}

// RenderNotesMarkdown wraps the notes in a document header
func RenderNotesMarkdown(report model.Report) string {
	if report.LLM == nil || !report.LLM.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Study notes\n\n")
	fmt.Fprintf(&b, "_Run %s, %d kanji, %d words. Generated by %s/%s; readings and meanings come from the report tables._\n\n",
		report.RunID, len(report.Kanji), len(report.Words), report.LLM.Provider, report.LLM.Model)
	b.WriteString(report.LLM.NotesMD)
	b.WriteString("\n")
	return b.String()
}
