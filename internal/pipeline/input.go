package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/kotoba/internal/extract"
)

// DefaultText is scanned when no input is given
const DefaultText = "在外邦人向けサービス「NHKワールド・プレミアム」は、NHKが国内で放送するニュース・情報番組、ドラマ、音楽番組、子ども番組、スポーツ中継などから選んだ番組を24時間編成しています。"

// InputRequest names exactly one input source
type InputRequest struct {
	Text  string    // Positional text; "-" reads Stdin
	File  string    // Path to a UTF-8 text file
	URL   string    // HTML page
	Stdin io.Reader // Used when Text is "-"
}

// Input is the text to scan and a label for where it came from
type Input struct {
	Source string
	Text   string
}

// LoadInput resolves the request into text. fetcher is only needed for URL input.
func LoadInput(ctx context.Context, req InputRequest, fetcher *Fetcher) (*Input, error) {
	given := 0
	for _, v := range []string{req.Text, req.File, req.URL} {
		if v != "" {
			given++
		}
	}
	if given > 1 {
		return nil, fmt.Errorf("load input: give only one of text, --file or --url")
	}

	var in Input
	switch {
	case req.URL != "":
		if fetcher == nil {
			return nil, fmt.Errorf("load input: no fetcher for %s", req.URL)
		}
		page, err := fetcher.FetchWithRetry(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("load input: %w", err)
		}
		text, err := extract.VisibleText(page.HTML)
		if err != nil {
			return nil, fmt.Errorf("load input: %w", err)
		}
		in = Input{Source: "url:" + page.FinalURL, Text: text}

	case req.File != "":
		data, err := os.ReadFile(req.File)
		if err != nil {
			return nil, fmt.Errorf("load input: %w", err)
		}
		in = Input{Source: "file:" + req.File, Text: string(data)}

	case req.Text == "-":
		if req.Stdin == nil {
			return nil, fmt.Errorf("load input: stdin not available")
		}
		data, err := io.ReadAll(req.Stdin)
		if err != nil {
			return nil, fmt.Errorf("load input: read stdin: %w", err)
		}
		in = Input{Source: "stdin", Text: string(data)}

	case req.Text != "":
		in = Input{Source: "text", Text: req.Text}

	default:
		in = Input{Source: "default", Text: DefaultText}
	}

	in.Text = strings.TrimSpace(strings.TrimPrefix(in.Text, "\ufeff"))
	if in.Text == "" {
		return nil, fmt.Errorf("load input: %w", ErrEmptyInput)
	}
	return &in, nil
}
