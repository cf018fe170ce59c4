package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

func TestNewModel(t *testing.T) {
	for _, provider := range []string{config.ProviderAnthropic, config.ProviderOpenAI} {
		t.Run(provider, func(t *testing.T) {
			model, err := NewModel(config.CompletionConfig{
				Provider: provider,
				Model:    "some-model",
				APIKey:   "test-key",
				BaseURL:  "http://127.0.0.1:1",
			}, nil)

			require.NoError(t, err)
			assert.NotNil(t, model)
		})
	}
}

func TestNewModel_MissingKey(t *testing.T) {
	_, err := NewModel(config.CompletionConfig{Provider: config.ProviderAnthropic}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfig))
}

func TestNewModel_UnknownProvider(t *testing.T) {
	_, err := NewModel(config.CompletionConfig{Provider: "cohere", APIKey: "k"}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfigValidation))
}

func TestTokenizer(t *testing.T) {
	require.NoError(t, InitTokenizer(""))

	count := CountTokens("Hello, world!")

	assert.Positive(t, count)
	assert.LessOrEqual(t, count, 10)
}
