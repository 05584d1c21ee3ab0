package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/kotoba/internal/model"
)

// NewProvider creates a provider; an empty provider name disables notes and returns nil, nil
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the runtime config, carrying the HTTP proxy settings over
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:         llmCfg.Provider,
		Model:            llmCfg.Model,
		APIKey:           llmCfg.APIKey,
		BaseURL:          llmCfg.BaseURL,
		Timeout:          llmCfg.Timeout,
		StrictVocabulary: true,
		MaxTokens:        llmCfg.MaxTokens,
		HTTPProxy:        httpCfg.HTTPProxy,
		HTTPSProxy:       httpCfg.HTTPSProxy,
		NoProxy:          httpCfg.NoProxy,
	}
}
