package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/kotoba/internal/model"
)

// KanjiLookup fetches readings, grade and meanings for one kanji
type KanjiLookup interface {
	LookupKanji(ctx context.Context, character string) (model.KanjiInfo, error)
}

// KanjiAPIClient talks to kanjiapi.dev
type KanjiAPIClient struct {
	getter  *Getter
	baseURL string
	log     *slog.Logger
}

// Pointer fields and the raw grade tell an absent key from an empty or null one
type kanjiAPIResponse struct {
	Kanji       string          `json:"kanji"`
	Grade       json.RawMessage `json:"grade"`
	KunReadings *[]string       `json:"kun_readings"`
	OnReadings  *[]string       `json:"on_readings"`
	Meanings    *[]string       `json:"meanings"`
}

// NewKanjiAPIClient creates a client rooted at baseURL, e.g. https://kanjiapi.dev/v1/kanji
func NewKanjiAPIClient(getter *Getter, baseURL string, logger *slog.Logger) *KanjiAPIClient {
	return &KanjiAPIClient{
		getter:  getter,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.With("adapter", "kanjiapi"),
	}
}

// LookupKanji returns the first kun and on reading, the grade as given and all meanings
func (c *KanjiAPIClient) LookupKanji(ctx context.Context, character string) (model.KanjiInfo, error) {
	if utf8.RuneCountInString(character) != 1 {
		return model.KanjiInfo{}, fmt.Errorf("kanjiapi: %w: want one character, got %q", ErrIneligible, character)
	}

	reqURL := c.baseURL + "/" + url.PathEscape(character)
	c.log.DebugContext(ctx, "kanjiapi request", slog.String("kanji", character))

	var payload kanjiAPIResponse
	if err := c.getter.GetJSON(ctx, "kanji", reqURL, &payload); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return model.KanjiInfo{}, fmt.Errorf("kanjiapi %s: %w", character, ErrNotFound)
		}
		return model.KanjiInfo{}, fmt.Errorf("kanjiapi %s: %w", character, err)
	}

	if payload.KunReadings == nil || payload.OnReadings == nil || payload.Meanings == nil || payload.Grade == nil {
		return model.KanjiInfo{}, fmt.Errorf("kanjiapi %s: %w: missing readings, meanings or grade", character, ErrMalformed)
	}
	var grade *int
	if err := json.Unmarshal(payload.Grade, &grade); err != nil {
		return model.KanjiInfo{}, fmt.Errorf("kanjiapi %s: %w: grade: %v", character, ErrMalformed, err)
	}

	meanings := *payload.Meanings
	if meanings == nil {
		meanings = []string{}
	}

	return model.KanjiInfo{
		Character:  character,
		KunReading: first(*payload.KunReadings),
		OnReading:  first(*payload.OnReadings),
		Grade:      grade,
		Meanings:   meanings,
	}, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
