package extract

import "github.com/ppiankov/kotoba/internal/util"

// CollectKanji returns the distinct kanji of text in first-occurrence order
func CollectKanji(text string) []string {
	seen := util.NewOrderedSet[rune]()
	for _, r := range text {
		if IsKanji(r) {
			seen.Add(r)
		}
	}

	chars := seen.Values()
	out := make([]string, len(chars))
	for i, r := range chars {
		out[i] = string(r)
	}
	return out
}
