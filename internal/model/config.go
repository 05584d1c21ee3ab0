package model

import "time"

// Config holds all runtime settings for a kotoba run
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Lookup       LookupConfig       `yaml:"lookup" mapstructure:"lookup"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Tokenizer    TokenizerConfig    `yaml:"tokenizer" mapstructure:"tokenizer"`
	Policy       PolicyConfig       `yaml:"policy" mapstructure:"policy"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls the shared HTTP client
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-request timeout, a timeout is a lookup failure
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"` // Only applies to --url ingestion
}

// LookupConfig points at the two external lookup services
type LookupConfig struct {
	KanjiBaseURL string        `yaml:"kanji_base_url" mapstructure:"kanji_base_url"`
	WordBaseURL  string        `yaml:"word_base_url" mapstructure:"word_base_url"`
	MaxRetries   int           `yaml:"max_retries" mapstructure:"max_retries"`
	MemoTTL      time.Duration `yaml:"memo_ttl" mapstructure:"memo_ttl"` // In-run response memo, never persisted
	MemoEnabled  bool          `yaml:"memo_enabled" mapstructure:"memo_enabled"`
}

// RateLimitingConfig configures the per-host limiter
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// TokenizerConfig selects the morphological dictionary
type TokenizerConfig struct {
	Dict string `yaml:"dict" mapstructure:"dict"` // ipa or uni
}

// KanjiFailurePolicy decides what happens when a kanji lookup fails
type KanjiFailurePolicy string

const (
	KanjiFailureFail     KanjiFailurePolicy = "fail"     // Abort the run
	KanjiFailureSentinel KanjiFailurePolicy = "sentinel" // Emit a "lookup failed" row and continue
)

// PolicyConfig holds failure-handling choices
type PolicyConfig struct {
	KanjiFailure KanjiFailurePolicy `yaml:"kanji_failure" mapstructure:"kanji_failure"`
}

// OutputConfig controls where and how reports are written
type OutputConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	JSONReport bool   `yaml:"json_report" mapstructure:"json_report"`
	Console    bool   `yaml:"console" mapstructure:"console"`
	Verbose    bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures the optional study-notes summary
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty" mapstructure:"provider"` // openai, ollama or empty (disabled)
	Model     string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "Kotoba/0.1 (+https://github.com/ppiankov/kotoba)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Lookup: LookupConfig{
			KanjiBaseURL: "https://kanjiapi.dev/v1/kanji",
			WordBaseURL:  "https://jisho.org/api/v1/search/words",
			MaxRetries:   3,
			MemoTTL:      30 * time.Minute,
			MemoEnabled:  true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 4,
			BurstSize:         2,
		},
		Tokenizer: TokenizerConfig{
			Dict: "ipa",
		},
		Policy: PolicyConfig{
			KanjiFailure: KanjiFailureFail,
		},
		Output: OutputConfig{
			Dir:     ".",
			Console: true,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
	}
}
