package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/kotoba/internal/model"
)

// WordLookup fetches the first English sense of a word.
// A word without results yields an error wrapping ErrNotFound.
type WordLookup interface {
	LookupWord(ctx context.Context, word string) (model.WordInfo, error)
}

// JishoClient talks to the jisho.org word search API
type JishoClient struct {
	getter  *Getter
	baseURL string
	log     *slog.Logger
}

type jishoResponse struct {
	Meta struct {
		Status int `json:"status"`
	} `json:"meta"`
	Data []jishoEntry `json:"data"`
}

type jishoEntry struct {
	Slug     string          `json:"slug"`
	Japanese []jishoJapanese `json:"japanese"`
	Senses   []jishoSense    `json:"senses"`
}

type jishoJapanese struct {
	Word    string  `json:"word"`
	Reading *string `json:"reading"`
}

type jishoSense struct {
	EnglishDefinitions *[]string `json:"english_definitions"`
	PartsOfSpeech      *[]string `json:"parts_of_speech"`
}

// NewJishoClient creates a client for baseURL, e.g. https://jisho.org/api/v1/search/words
func NewJishoClient(getter *Getter, baseURL string, logger *slog.Logger) *JishoClient {
	return &JishoClient{
		getter:  getter,
		baseURL: baseURL,
		log:     logger.With("adapter", "jisho"),
	}
}

// LookupWord consults only the first sense and the first reading of the first entry
func (c *JishoClient) LookupWord(ctx context.Context, word string) (model.WordInfo, error) {
	reqURL, err := c.searchURL(word)
	if err != nil {
		return model.WordInfo{}, err
	}

	c.log.DebugContext(ctx, "jisho request", slog.String("word", word))

	var payload jishoResponse
	if err := c.getter.GetJSON(ctx, "word", reqURL, &payload); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return model.WordInfo{}, fmt.Errorf("jisho %s: %w", word, ErrNotFound)
		}
		return model.WordInfo{}, fmt.Errorf("jisho %s: %w", word, err)
	}

	if len(payload.Data) == 0 {
		return model.WordInfo{}, fmt.Errorf("jisho %s: %w", word, ErrNotFound)
	}
	entry := payload.Data[0]
	if len(entry.Senses) == 0 || len(entry.Japanese) == 0 {
		return model.WordInfo{}, fmt.Errorf("jisho %s: %w: entry without senses or readings", word, ErrMalformed)
	}
	sense, reading := entry.Senses[0], entry.Japanese[0].Reading
	if reading == nil || sense.EnglishDefinitions == nil || sense.PartsOfSpeech == nil {
		return model.WordInfo{}, fmt.Errorf("jisho %s: %w: first entry lacks reading, definitions or parts of speech", word, ErrMalformed)
	}

	return model.WordInfo{
		Word:            word,
		JapaneseReading: *reading,
		PartOfSpeech:    strings.Join(*sense.PartsOfSpeech, ", "),
		EnglishMeaning:  strings.Join(*sense.EnglishDefinitions, ", "),
	}, nil
}

func (c *JishoClient) searchURL(word string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse jisho base URL: %w", err)
	}
	q := u.Query()
	q.Set("keyword", word)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
