package llm

import (
	"fmt"
	"strings"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/config"
)

type Config struct {
	Provider string
	APIKey   string
	APIURL   string
	Timeout  int // seconds per completion call
}

func LoadConfig() Config {
	return Config{
		Provider: config.GetEnv("LLM_PROVIDER", "openai"),
		APIKey:   config.GetEnv("LLM_API_KEY", config.GetEnv("OPENAI_API_KEY", "")),
		APIURL:   config.GetEnv("LLM_API_URL", ""),
		Timeout:  config.GetEnvInt("LLM_TIMEOUT_SECONDS", 30),
	}
}

// NewProvider builds the live completion backend named by cfg. A missing
// API key is not an error here; the provider reports ErrNoAPIKey per call
// so the caller's fallback branch stays the single degradation path.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
