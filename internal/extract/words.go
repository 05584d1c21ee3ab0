package extract

import (
	"strings"

	"github.com/ppiankov/kotoba/internal/model"
)

// ReconstructWords merges each run of consecutive verb and auxiliary-verb
// morphemes into one word. Every other morpheme becomes a word on its own.
// Order follows the stream and duplicates are kept.
func ReconstructWords(morphemes []model.Morpheme) []string {
	words := make([]string, 0, len(morphemes))

	var pending strings.Builder
	accumulating := false

	flush := func() {
		if accumulating {
			words = append(words, pending.String())
			pending.Reset()
			accumulating = false
		}
	}

	for _, m := range morphemes {
		if m.POS.IsVerbal() {
			pending.WriteString(m.Surface)
			accumulating = true
			continue
		}
		flush()
		words = append(words, m.Surface)
	}
	flush()

	return words
}
