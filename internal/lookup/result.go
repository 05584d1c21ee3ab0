package lookup

import "github.com/ppiankov/kotoba/internal/model"

// WordResult is the outcome of enriching one word. Info is only meaningful when Found is true.
type WordResult struct {
	Found  bool
	Info   model.WordInfo
	Reason error // Why the word was not found; nil when Found
}

// Found wraps a successful lookup
func Found(info model.WordInfo) WordResult {
	return WordResult{Found: true, Info: info}
}

// NotFound records a word that produced no row
func NotFound(reason error) WordResult {
	if reason == nil {
		reason = ErrNotFound
	}
	return WordResult{Reason: reason}
}
