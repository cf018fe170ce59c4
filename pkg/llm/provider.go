package llm

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// NewModel builds the langchaingo model for the configured provider.
// httpClient may be nil to use the provider's default client.
func NewModel(cfg config.CompletionConfig, httpClient *http.Client) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, &utils.ConfigError{Reason: "completion service API key is not configured"}
	}

	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		opts := []anthropic.Option{
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		if httpClient != nil {
			opts = append(opts, anthropic.WithHTTPClient(httpClient))
		}
		model, err := anthropic.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: anthropic client: %w", utils.ErrConfig, err)
		}
		return model, nil

	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if httpClient != nil {
			opts = append(opts, openai.WithHTTPClient(httpClient))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: openai client: %w", utils.ErrConfig, err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("%w: unknown completion provider %q", utils.ErrConfigValidation, cfg.Provider)
	}
}
