package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/kotoba/internal/llm"
	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/pipeline"
)

var (
	inFile      string
	inURL       string
	runTimeout  time.Duration
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [text|-]",
	Short: "Build kanji and word reports for a Japanese text",
	Long: `Scan collects the distinct kanji of the input, rebuilds words from the
tokenizer output, looks each one up once and writes the reports.

Input is the positional text, "-" for stdin, --file or --url. Without any
input a sample NHK sentence is scanned.

Example:
  kotoba scan "今日はいい天気ですね。肉を食べたい"
  kotoba scan --file article.txt --out-dir ./reports --json
  kotoba scan --url https://www3.nhk.or.jp/news/easy/ --kanji-failure sentinel
  echo "選んだ番組" | kotoba scan - --llm --llm-provider ollama --llm-model qwen2.5:7b`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	defaults := model.DefaultConfig()
	flags := scanCmd.Flags()

	// Input
	flags.StringVar(&inFile, "file", "", "read input text from a UTF-8 file")
	flags.StringVar(&inURL, "url", "", "read the visible text of an HTML page")
	flags.DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")

	// Output
	flags.String("out-dir", defaults.Output.Dir, "directory for the reports")
	flags.Bool("json", defaults.Output.JSONReport, "also write report-<timestamp>.json")
	flags.Bool("console", defaults.Output.Console, "echo rows to stdout")

	// Pipeline
	flags.String("dict", defaults.Tokenizer.Dict, "tokenizer dictionary (ipa, uni)")
	flags.String("kanji-failure", string(defaults.Policy.KanjiFailure), "on kanji lookup failure: fail or sentinel")

	// HTTP
	flags.String("ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	flags.Duration("http-timeout", defaults.HTTP.Timeout, "per-request timeout")
	flags.Float64("rps", defaults.RateLimiting.RequestsPerSecond, "requests per second per host (0 = unlimited)")
	flags.Int("retries", defaults.Lookup.MaxRetries, "attempts per lookup on transient errors")
	flags.Bool("memo", defaults.Lookup.MemoEnabled, "reuse lookup responses within the run")
	flags.Bool("robots", defaults.HTTP.RespectRobots, "honor robots.txt for --url")
	flags.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	flags.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM
	flags.BoolVar(&llmEnabled, "llm", false, "write study notes with an LLM after the reports")
	flags.StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	flags.StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")

	for key, flag := range map[string]string{
		"output.dir":                        "out-dir",
		"output.json_report":                "json",
		"output.console":                    "console",
		"tokenizer.dict":                    "dict",
		"policy.kanji_failure":              "kanji-failure",
		"http.user_agent":                   "ua",
		"http.timeout":                      "http-timeout",
		"http.respect_robots":               "robots",
		"http.http_proxy":                   "http-proxy",
		"http.https_proxy":                  "https-proxy",
		"rate_limiting.requests_per_second": "rps",
		"lookup.max_retries":                "retries",
		"lookup.memo_enabled":               "memo",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if llmEnabled {
		if cmd.Flags().Changed("llm-provider") || cfg.LLM.Provider == "" {
			cfg.LLM.Provider = llmProvider
		}
		if cmd.Flags().Changed("llm-model") || cfg.LLM.Model == "" {
			cfg.LLM.Model = llmModel
		}
		if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "openai" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	} else {
		cfg.LLM.Provider = ""
	}

	logger := newLogger(cfg.Output.Verbose)

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	p, fetcher, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	req := pipeline.InputRequest{File: inFile, URL: inURL, Stdin: cmd.InOrStdin()}
	if len(args) == 1 {
		req.Text = args[0]
	}
	if inURL != "" {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", inURL)
	}
	input, err := pipeline.LoadInput(ctx, req, fetcher)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Looking up kanji and words...\n")
	report, err := p.Run(ctx, input.Source, input.Text)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ %d kanji, %d of %d words enriched\n",
		len(report.Kanji), len(report.Words), len(report.ReconstructedWords))

	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	paths := pipeline.PathsFor(cfg.Output.Dir, report.CreatedAt)

	if err := renderer.RenderCSV(report, paths); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if cfg.Output.Console {
		renderer.RenderConsole(report)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", paths.KanjiCSV)
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", paths.WordsCSV)

	if cfg.LLM.Provider != "" {
		writeNotes(ctx, cfg, report, renderer, paths, logger)
	}

	if cfg.Output.JSONReport {
		if err := renderer.RenderJSON(report, paths.JSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", paths.JSON)
	}

	return nil
}

// writeNotes only warns on failure; the reports are already on disk
func writeNotes(ctx context.Context, cfg *model.Config, report *model.Report, renderer *pipeline.Renderer, paths pipeline.OutputPaths, logger *slog.Logger) {
	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP), logger)
	if err != nil {
		logger.WarnContext(ctx, "LLM provider init failed", slog.String("error", err.Error()))
		return
	}

	summary, err := summarizer.GenerateNotes(ctx, *report)
	if err != nil || summary == nil {
		return
	}
	report.LLM = summary
	for _, w := range summary.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if md := llm.RenderNotesMarkdown(*report); md != "" {
		if err := renderer.RenderNotes(md, paths.Notes); err != nil {
			logger.WarnContext(ctx, "write notes failed", slog.String("error", err.Error()))
			return
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s (%s/%s)\n", paths.Notes, summary.Provider, summary.Model)
	}
}
