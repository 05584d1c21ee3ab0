// Probe program that checks both lookup services are reachable and still
// answer in the shape the report rows are built from
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/kotoba/internal/lookup"
	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/pipeline"
	"github.com/ppiankov/kotoba/internal/ratelimit"
)

func main() {
	kanjiArg := flag.String("kanji", "在,祭,邦", "comma-separated kanji to look up")
	wordArg := flag.String("words", "今日,食べたいです,ぬぬぬぬ", "comma-separated words to look up")
	flag.Parse()

	cfg := model.DefaultConfig()
	cfg.Lookup.MemoEnabled = false
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	limiter := ratelimit.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	kanjiClient, wordClient := lookup.NewClientsFromConfig(cfg, limiter, logger)

	failures := 0

	fmt.Println("=== Kanji lookups (" + cfg.Lookup.KanjiBaseURL + ") ===")
	for _, c := range split(*kanjiArg) {
		info, err := kanjiClient.LookupKanji(ctx, c)
		if err != nil {
			failures++
			fmt.Printf("  ✗ %s: %v\n", c, err)
			continue
		}
		fmt.Printf("  ✓ %s\n", pipeline.FormatKanji(info))
	}

	fmt.Println()
	fmt.Println("=== Word lookups (" + cfg.Lookup.WordBaseURL + ") ===")
	for _, w := range split(*wordArg) {
		info, err := wordClient.LookupWord(ctx, w)
		switch {
		case errors.Is(err, lookup.ErrNotFound):
			fmt.Printf("  - %s: no results\n", w)
		case err != nil:
			failures++
			fmt.Printf("  ✗ %s: %v\n", w, err)
		default:
			fmt.Printf("  ✓ %s\n", pipeline.FormatWord(info))
		}
	}

	fmt.Println()
	if failures > 0 {
		fmt.Printf("%d lookup(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("All services answered")
}

func split(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
