package llm

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"

	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// Temperature is fixed low so the model sticks to the output schema.
const Temperature = 0.1

// Generator is the part of llms.Model the client needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Client sends one prompt per call to the completion service. It never retries.
type Client struct {
	gen       Generator
	provider  string
	model     string
	maxTokens int
	timeout   time.Duration
	log       *logrus.Entry
}

// NewClient wraps gen with the configured model, token limit and deadline.
func NewClient(gen Generator, cfg config.CompletionConfig, log *logrus.Entry) *Client {
	return &Client{
		gen:       gen,
		provider:  cfg.Provider,
		model:     cfg.Model,
		maxTokens: cfg.MaxOutputTokens,
		timeout:   cfg.Timeout,
		log:       log.WithFields(logrus.Fields{"component": "completion", "provider": cfg.Provider}),
	}
}

// Request describes the call Complete makes for prompt.
func (c *Client) Request(prompt string) models.CompletionRequest {
	return models.CompletionRequest{
		Prompt:      prompt,
		Model:       c.model,
		Temperature: Temperature,
		MaxTokens:   c.maxTokens,
	}
}

// Complete returns the text of the first non-empty choice, unmodified.
// Errors are *utils.CompletionError for provider failures and *utils.EmptyCompletionError when no
// choice carries text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.gen == nil {
		return "", &utils.ConfigError{Reason: "completion service is not configured"}
	}

	req := c.Request(prompt)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.log.WithFields(logrus.Fields{
		"model":         req.Model,
		"prompt_chars":  len(req.Prompt),
		"prompt_tokens": CountTokens(req.Prompt),
		"prompt_sha":    utils.ShortFingerprint(req.Prompt),
		"max_tokens":    req.MaxTokens,
		"temperature":   req.Temperature,
	}).Debug("Sending completion request")

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}

	start := time.Now()
	resp, err := c.gen.GenerateContent(ctx, messages,
		llms.WithModel(req.Model),
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(req.MaxTokens),
	)
	if err != nil {
		c.log.WithError(err).Error("Completion request failed")
		return "", &utils.CompletionError{Provider: c.provider, Err: err}
	}

	if resp == nil {
		return "", &utils.EmptyCompletionError{Provider: c.provider}
	}

	for _, choice := range resp.Choices {
		if choice == nil || strings.TrimSpace(choice.Content) == "" {
			continue
		}
		fields := logrus.Fields{
			"duration":    time.Since(start),
			"chars":       len(choice.Content),
			"stop_reason": choice.StopReason,
		}
		for key, value := range choice.GenerationInfo {
			if strings.Contains(strings.ToLower(key), "tokens") {
				fields[key] = value
			}
		}
		c.log.WithFields(fields).Debug("Completion received")
		return choice.Content, nil
	}

	c.log.WithField("choices", len(resp.Choices)).Warn("Completion returned no text")
	return "", &utils.EmptyCompletionError{Provider: c.provider, Choices: len(resp.Choices)}
}
