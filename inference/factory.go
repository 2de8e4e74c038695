package inference

import (
	"errors"
	"fmt"
	"net/http"

	"newsai/config"
)

var errNotConfigured = errors.New("provider is not configured")

// New builds the configured backend and guards it with the inference timeout
func New(cfg config.Config, httpClient *http.Client) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.Inference.Provider {
	case config.ProviderHuggingFace, "":
		p = NewHuggingFace(cfg.HuggingFace, httpClient)
	case config.ProviderOpenAI:
		p, err = NewOpenAI(cfg.OpenAI, httpClient)
	case config.ProviderCohere:
		p, err = NewCohere(cfg.Cohere, httpClient)
	case config.ProviderOllama:
		p = NewOllama(cfg.Ollama, httpClient)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Inference.Provider)
	}
	if err != nil {
		return nil, err
	}

	return Guard(p, cfg.Inference.Timeout), nil
}
