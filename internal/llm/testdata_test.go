package llm

import (
	"io"
	"log/slog"

	"github.com/ppiankov/kotoba/internal/model"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport() model.Report {
	one := 1
	return model.Report{
		RunID: "01HRX0000000000000000000AA",
		Input: "肉を食べたいです",
		Kanji: []model.KanjiInfo{
			{Character: "肉", KunReading: "しし", OnReading: "ニク", Grade: &one, Meanings: []string{"meat"}},
		},
		Words: []model.WordInfo{
			{Word: "肉", JapaneseReading: "にく", PartOfSpeech: "Noun", EnglishMeaning: "meat"},
			{Word: "食べたいです", JapaneseReading: "たべる", PartOfSpeech: "Ichidan verb", EnglishMeaning: "to eat"},
		},
	}
}
