package model

import "time"

// Report is the complete result of one kotoba run
type Report struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"` // Shared by every file written for this run
	Source    string    `json:"source"`     // "text", "file:<path>", "url:<url>" or "stdin"
	Input     string    `json:"input"`

	KanjiCharacters    []string `json:"kanji_characters"`    // Distinct, first-occurrence order
	ReconstructedWords []string `json:"reconstructed_words"` // Before dedup

	Kanji []KanjiInfo `json:"kanji"` // Sorted by grade ascending
	Words []WordInfo  `json:"words"` // First-success order

	Stats RunStats `json:"stats"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional study notes, never affects the rows
}

// RunStats counts what the enrichment pipeline did
type RunStats struct {
	KanjiLookups      int `json:"kanji_lookups"`
	KanjiFailed       int `json:"kanji_failed"`
	WordLookups       int `json:"word_lookups"`
	WordsNotFound     int `json:"words_not_found"`
	WordsIneligible   int `json:"words_ineligible"` // Single non-kanji code points, never looked up
	DuplicatesSkipped int `json:"duplicates_skipped"`
}

// LLMSummary contains the optional study notes
type LLMSummary struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	NotesMD    string   `json:"notes_md,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}
