package config

import (
	"strings"
	"time"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

// Supported completion providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Environment variables consulted for the completion credential.
// EnvAPIKey wins over the provider-specific variables, which win over the config file.
const (
	EnvAPIKey          = "STORYLENS_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
)

// AppConfig holds the global application configuration
type AppConfig struct {
	ListenAddr             string           `yaml:"listen_addr,omitempty"`
	UserAgent              string           `yaml:"user_agent,omitempty"`
	FetchTimeout           time.Duration    `yaml:"fetch_timeout,omitempty"`  // Hard deadline for the article fetch
	MaxPageBytes           int64            `yaml:"max_page_bytes,omitempty"` // Body is truncated beyond this
	MaxArticleChars        int              `yaml:"max_article_chars,omitempty"`
	DisallowedImageDomains []string         `yaml:"disallowed_image_domains,omitempty"` // Supports *.example.com
	HTTPClientSettings     HTTPClientConfig `yaml:"http_client_settings,omitempty"`
	Completion             CompletionConfig `yaml:"completion"`
}

// CompletionConfig holds settings for the external text-completion service
type CompletionConfig struct {
	Provider          string        `yaml:"provider,omitempty"` // "anthropic" or "openai"
	Model             string        `yaml:"model,omitempty"`
	APIKey            string        `yaml:"api_key,omitempty"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	MaxOutputTokens   int           `yaml:"max_output_tokens,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	TokenizerEncoding string        `yaml:"tokenizer_encoding,omitempty"` // Used only for logging prompt size
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// ApplyEnv overlays credentials from the environment. getenv is os.Getenv outside tests.
func (c *AppConfig) ApplyEnv(getenv func(string) string) {
	if key := strings.TrimSpace(getenv(EnvAPIKey)); key != "" {
		c.Completion.APIKey = key
		return
	}
	if c.Completion.APIKey != "" {
		return
	}
	var providerVar string
	switch c.Completion.Provider {
	case ProviderOpenAI:
		providerVar = EnvOpenAIAPIKey
	default:
		providerVar = EnvAnthropicAPIKey
	}
	c.Completion.APIKey = strings.TrimSpace(getenv(providerVar))
}

// HasCredential reports whether a completion credential is configured.
func (c *AppConfig) HasCredential() bool {
	return strings.TrimSpace(c.Completion.APIKey) != ""
}

// RequireCredential is the per-request check for the completion credential.
func (c *AppConfig) RequireCredential() error {
	if !c.HasCredential() {
		return &utils.ConfigError{Reason: "completion service API key is not configured"}
	}
	return nil
}
