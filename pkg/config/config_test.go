package config

import (
	"errors"
	"testing"

	"github.com/Sriram-PR/storylens/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		fileKey  string
		env      map[string]string
		expected string
	}{
		{
			name:     "generic variable wins over everything",
			provider: ProviderAnthropic,
			fileKey:  "from-file",
			env:      map[string]string{EnvAPIKey: "generic", EnvAnthropicAPIKey: "anthropic"},
			expected: "generic",
		},
		{
			name:     "config file wins over provider variable",
			provider: ProviderAnthropic,
			fileKey:  "from-file",
			env:      map[string]string{EnvAnthropicAPIKey: "anthropic"},
			expected: "from-file",
		},
		{
			name:     "anthropic variable used for anthropic provider",
			provider: ProviderAnthropic,
			env:      map[string]string{EnvAnthropicAPIKey: "anthropic", EnvOpenAIAPIKey: "openai"},
			expected: "anthropic",
		},
		{
			name:     "openai variable used for openai provider",
			provider: ProviderOpenAI,
			env:      map[string]string{EnvAnthropicAPIKey: "anthropic", EnvOpenAIAPIKey: "openai"},
			expected: "openai",
		},
		{
			name:     "whitespace only is ignored",
			provider: ProviderAnthropic,
			env:      map[string]string{EnvAPIKey: "   "},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Completion: CompletionConfig{Provider: tt.provider, APIKey: tt.fileKey}}
			cfg.ApplyEnv(envFrom(tt.env))
			assert.Equal(t, tt.expected, cfg.Completion.APIKey)
		})
	}
}

func TestRequireCredential(t *testing.T) {
	cfg := AppConfig{}
	err := cfg.RequireCredential()
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfig))

	var cfgErr *utils.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "API key")

	cfg.Completion.APIKey = "sk-test"
	assert.NoError(t, cfg.RequireCredential())
	assert.True(t, cfg.HasCredential())
}
