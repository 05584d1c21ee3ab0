package model

import "strconv"

// KanjiInfo is the enriched record for one distinct kanji character
type KanjiInfo struct {
	Character    string   `json:"character"`
	KunReading   string   `json:"kun_reading"`
	OnReading    string   `json:"on_reading"`
	Grade        *int     `json:"grade"` // nil when the service reports no grade
	Meanings     []string `json:"meanings"`
	LookupFailed bool     `json:"lookup_failed,omitempty"` // Sentinel row, only under the sentinel policy
}

// GradeLabel renders the grade the way the console and reports show it
func (k KanjiInfo) GradeLabel() string {
	if k.Grade == nil {
		return "None"
	}
	return strconv.Itoa(*k.Grade)
}

// WordInfo is the enriched record for one distinct reconstructed word
type WordInfo struct {
	Word            string `json:"word"`
	JapaneseReading string `json:"japanese_reading"`
	PartOfSpeech    string `json:"part_of_speech"`  // ", " joined
	EnglishMeaning  string `json:"english_meaning"` // ", " joined
}
