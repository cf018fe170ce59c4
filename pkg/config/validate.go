package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

// Defaults applied by Validate
const (
	DefaultListenAddr      = ":8080"
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultFetchTimeout    = 15 * time.Second
	DefaultMaxPageBytes    = 10 * 1024 * 1024
	DefaultMaxArticleChars = 150000
	DefaultMaxOutputTokens = 4096
	DefaultCompletionWait  = 60 * time.Second
	DefaultAnthropicModel  = "claude-3-5-sonnet-latest"
	DefaultOpenAIModel     = "gpt-4o-mini"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
// A missing credential is not fatal here; it is reported per request by RequireCredential.
func (c *AppConfig) Validate() (warnings []string, err error) {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// FetchTimeout
	if c.FetchTimeout < 0 {
		warnings = append(warnings, fmt.Sprintf("fetch_timeout cannot be negative, defaulting to %v", DefaultFetchTimeout))
		c.FetchTimeout = DefaultFetchTimeout
	} else if c.FetchTimeout == 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}

	// MaxPageBytes
	if c.MaxPageBytes < 0 {
		warnings = append(warnings, "max_page_bytes cannot be negative, defaulting to 10 MiB")
		c.MaxPageBytes = DefaultMaxPageBytes
	} else if c.MaxPageBytes == 0 {
		c.MaxPageBytes = DefaultMaxPageBytes
	}

	// MaxArticleChars
	if c.MaxArticleChars < 0 || c.MaxArticleChars > DefaultMaxArticleChars {
		warnings = append(warnings, fmt.Sprintf(
			"max_article_chars must be between 1 and %d, defaulting to %d",
			DefaultMaxArticleChars, DefaultMaxArticleChars))
		c.MaxArticleChars = DefaultMaxArticleChars
	} else if c.MaxArticleChars == 0 {
		c.MaxArticleChars = DefaultMaxArticleChars
	}

	for i, d := range c.DisallowedImageDomains {
		c.DisallowedImageDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}

	c.validateHTTPClientSettings()

	completionWarnings, err := c.Completion.validate()
	warnings = append(warnings, completionWarnings...)
	if err != nil {
		return warnings, err
	}

	return warnings, nil
}

// validate applies completion defaults. An unknown provider is the only fatal error.
func (cc *CompletionConfig) validate() (warnings []string, err error) {
	cc.Provider = strings.ToLower(strings.TrimSpace(cc.Provider))
	switch cc.Provider {
	case "":
		cc.Provider = ProviderAnthropic
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("%w: unknown completion provider %q (supported: %s, %s)",
			utils.ErrConfigValidation, cc.Provider, ProviderAnthropic, ProviderOpenAI)
	}

	if cc.Model == "" {
		if cc.Provider == ProviderOpenAI {
			cc.Model = DefaultOpenAIModel
		} else {
			cc.Model = DefaultAnthropicModel
		}
	}

	if cc.MaxOutputTokens < 0 {
		warnings = append(warnings, fmt.Sprintf("completion.max_output_tokens cannot be negative, defaulting to %d", DefaultMaxOutputTokens))
		cc.MaxOutputTokens = DefaultMaxOutputTokens
	} else if cc.MaxOutputTokens == 0 {
		cc.MaxOutputTokens = DefaultMaxOutputTokens
	}

	if cc.Timeout < 0 {
		warnings = append(warnings, fmt.Sprintf("completion.timeout cannot be negative, defaulting to %v", DefaultCompletionWait))
		cc.Timeout = DefaultCompletionWait
	} else if cc.Timeout == 0 {
		cc.Timeout = DefaultCompletionWait
	}

	if cc.TokenizerEncoding == "" {
		cc.TokenizerEncoding = "cl100k_base"
	}

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 10 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}
