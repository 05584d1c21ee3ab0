package extract

// Block-level ranges. They are approximations of the scripts and are kept
// as-is because kanji collection and word eligibility depend on them.
const (
	kanjiFirst    = '\u4E00'
	kanjiLast     = '\u9FBF'
	hiraganaFirst = '\u3040'
	hiraganaLast  = '\u309F'
	katakanaFirst = '\u30A0'
	katakanaLast  = '\u30FF'
)

// IsKanji reports whether r lies in the block U+4E00..U+9FBF.
func IsKanji(r rune) bool {
	return r >= kanjiFirst && r <= kanjiLast
}

// IsHiragana reports whether r lies in the block U+3040..U+309F.
func IsHiragana(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

// IsKatakana reports whether r lies in the block U+30A0..U+30FF.
func IsKatakana(r rune) bool {
	return r >= katakanaFirst && r <= katakanaLast
}
