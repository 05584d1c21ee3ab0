package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/kotoba/internal/model"
)

// version is overridden at build time with -ldflags "-X github.com/ppiankov/kotoba/internal/cli.version=..."
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kotoba",
	Short: "Kotoba - kanji and vocabulary lists from Japanese text",
	Long: `Kotoba reads Japanese text, splits it into words (verbs are kept together
with their auxiliaries, so 食べたいです stays one word), looks up every distinct
kanji and word, and writes two CSV reports:

  kanji-<timestamp>.csv   readings, school grade and meanings per kanji
  words-<timestamp>.csv   reading, part of speech and English meaning per word

Kanji data comes from kanjiapi.dev, word data from jisho.org.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kotoba %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.kotoba/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env, then points viper at the config file and KOTOBA_* variables
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	configureViper(viper.GetViper(), cfgFile)

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config %s: %v\n", cfgFile, err)
		}
	}
}

func configureViper(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".kotoba"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("KOTOBA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, model.DefaultConfig())
}

// setDefaults registers every key so env variables and Unmarshal can see it
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", cfg.HTTP.NoProxy)
	v.SetDefault("http.respect_robots", cfg.HTTP.RespectRobots)

	v.SetDefault("lookup.kanji_base_url", cfg.Lookup.KanjiBaseURL)
	v.SetDefault("lookup.word_base_url", cfg.Lookup.WordBaseURL)
	v.SetDefault("lookup.max_retries", cfg.Lookup.MaxRetries)
	v.SetDefault("lookup.memo_ttl", cfg.Lookup.MemoTTL)
	v.SetDefault("lookup.memo_enabled", cfg.Lookup.MemoEnabled)

	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	v.SetDefault("tokenizer.dict", cfg.Tokenizer.Dict)
	v.SetDefault("policy.kanji_failure", string(cfg.Policy.KanjiFailure))

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.json_report", cfg.Output.JSONReport)
	v.SetDefault("output.console", cfg.Output.Console)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
}

// loadConfig resolves flags > env > config file > defaults into a Config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.APIKey == "" && strings.EqualFold(cfg.LLM.Provider, "openai") {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	switch cfg.Policy.KanjiFailure {
	case model.KanjiFailureFail, model.KanjiFailureSentinel:
	default:
		return nil, fmt.Errorf("invalid policy.kanji_failure %q (supported: fail, sentinel)", cfg.Policy.KanjiFailure)
	}
	if cfg.Lookup.MaxRetries < 1 {
		return nil, fmt.Errorf("invalid lookup.max_retries %d (must be at least 1)", cfg.Lookup.MaxRetries)
	}

	return cfg, nil
}

// newLogger writes text logs to stderr, at debug level when verbose
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
