package client

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"invoice-processor/config"
)

// NewLabelModel builds the labeling model for the configured provider.
// Ollama is the default and is constructed with format=json, which
// constrains the model to emit a single JSON object.
func NewLabelModel(cfg *config.Config) (llms.Model, error) {
	log.Printf("Initializing %s labeling model: %s", cfg.LabelProvider, cfg.LabelModel)

	switch strings.ToLower(cfg.LabelProvider) {
	case "ollama":
		return ollama.New(
			ollama.WithModel(cfg.LabelModel),
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithFormat("json"),
		)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is not set")
		}
		opts := []openai.Option{
			openai.WithModel(cfg.LabelModel),
			openai.WithToken(cfg.OpenAIAPIKey),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported label provider: %s", cfg.LabelProvider)
	}
}
