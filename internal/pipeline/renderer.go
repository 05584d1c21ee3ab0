package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/kotoba/internal/model"
)

// StampLayout formats run timestamps as month-day-year_hour-minute-second
const StampLayout = "01-02-2006_15-04-05"

var (
	kanjiHeader = []string{"Character", "Kun Reading", "On Reading", "Grade Level", "Meaning"}
	wordsHeader = []string{"Word", "Japanese Reading", "Part of Speech", "English Meaning"}
)

// OutputPaths are the files written for one run, all sharing one timestamp
type OutputPaths struct {
	KanjiCSV string
	WordsCSV string
	JSON     string
	Notes    string
}

// PathsFor derives output file names in dir for a run created at t
func PathsFor(dir string, t time.Time) OutputPaths {
	stamp := t.Format(StampLayout)
	return OutputPaths{
		KanjiCSV: filepath.Join(dir, "kanji-"+stamp+".csv"),
		WordsCSV: filepath.Join(dir, "words-"+stamp+".csv"),
		JSON:     filepath.Join(dir, "report-"+stamp+".json"),
		Notes:    filepath.Join(dir, "notes-"+stamp+".md"),
	}
}

// Renderer writes report rows to files and echoes them to the console
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a Renderer that echoes to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// RenderCSV writes the kanji and word reports
func (r *Renderer) RenderCSV(report *model.Report, paths OutputPaths) error {
	if err := writeCSV(paths.KanjiCSV, kanjiHeader, KanjiRecords(report.Kanji)); err != nil {
		return fmt.Errorf("write kanji report: %w", err)
	}
	if err := writeCSV(paths.WordsCSV, wordsHeader, WordRecords(report.Words)); err != nil {
		return fmt.Errorf("write word report: %w", err)
	}
	return nil
}

// KanjiRecords converts rows to CSV records in column order
func KanjiRecords(rows []model.KanjiInfo) [][]string {
	records := make([][]string, 0, len(rows))
	for _, k := range rows {
		records = append(records, []string{
			k.Character,
			k.KunReading,
			k.OnReading,
			k.GradeLabel(),
			strings.Join(k.Meanings, ", "),
		})
	}
	return records
}

// WordRecords converts rows to CSV records in column order
func WordRecords(rows []model.WordInfo) [][]string {
	records := make([][]string, 0, len(rows))
	for _, w := range rows {
		records = append(records, []string{w.Word, w.JapaneseReading, w.PartOfSpeech, w.EnglishMeaning})
	}
	return records
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	return f.Close()
}

// RenderConsole echoes the input, the collected units and every row
func (r *Renderer) RenderConsole(report *model.Report) {
	fmt.Fprintf(r.out, "Input Text: %s\n", report.Input)
	fmt.Fprintf(r.out, "Kanji: %s\n", strings.Join(report.KanjiCharacters, ", "))
	for _, k := range report.Kanji {
		fmt.Fprintln(r.out, FormatKanji(k))
	}

	fmt.Fprintf(r.out, "Words: %s\n", strings.Join(report.ReconstructedWords, ", "))
	for _, w := range report.Words {
		fmt.Fprintln(r.out, FormatWord(w))
	}
}

// FormatKanji renders "<char> (Grade <n>): (Kun: <kun> On: <on>), <meanings>"
func FormatKanji(k model.KanjiInfo) string {
	return k.Character + " (Grade " + k.GradeLabel() + "): (Kun: " + k.KunReading + " On: " + k.OnReading + "), " + strings.Join(k.Meanings, ", ")
}

// FormatWord renders "<word> (<reading>): (<pos>) <meaning>"
func FormatWord(w model.WordInfo) string {
	return w.Word + " (" + w.JapaneseReading + "): (" + w.PartOfSpeech + ") " + w.EnglishMeaning
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// RenderNotes writes study notes markdown
func (r *Renderer) RenderNotes(markdown string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
