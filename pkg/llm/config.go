package llm

import (
	"fmt"
	"strings"
	"time"

	"rasid/pkg/config"
)

type Config struct {
	Provider string
	Model    string
	APIKey   string
	APIURL   string
	// Timeout bounds each completion request; a stalled gateway call fails
	// instead of blocking the conversation turn.
	Timeout time.Duration
	// ToolChoice is the tool-choice policy forwarded with every request
	// that carries tools ("auto" unless overridden).
	ToolChoice string
}

func LoadConfig() Config {
	return Config{
		Provider:   config.GetEnv("LLM_PROVIDER", "openai"),
		Model:      config.GetEnv("LLM_MODEL", ""),
		APIKey:     config.GetEnv("LLM_API_KEY", ""),
		APIURL:     config.GetEnv("LLM_API_URL", ""),
		Timeout:    config.GetEnvDuration("LLM_TIMEOUT", 60*time.Second),
		ToolChoice: config.GetEnv("LLM_TOOL_CHOICE", "auto"),
	}
}

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "ollama":
		return NewOllamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
