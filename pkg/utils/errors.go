package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrConfig              = errors.New("configuration error")
	ErrConfigValidation    = errors.New("configuration validation error")
	ErrFetch               = errors.New("fetch failed")
	ErrClientHTTPError     = errors.New("client HTTP error (4xx)")    // Wraps original status
	ErrServerHTTPError     = errors.New("server HTTP error (5xx)")    // Wraps original status
	ErrOtherHTTPError      = errors.New("other HTTP error (non-2xx)") // Wraps original status
	ErrTimeout             = errors.New("deadline exceeded")
	ErrRequestCreation     = errors.New("failed to create HTTP request")
	ErrResponseBodyRead    = errors.New("failed to read response body")
	ErrParsing             = errors.New("parsing error") // Wraps specific parsing error (HTML, URL, JSON)
	ErrInsufficientContent = errors.New("insufficient readable content")
	ErrCompletion          = errors.New("completion service error")
	ErrEmptyCompletion     = errors.New("completion returned no text")
	ErrNoDelimiters        = errors.New("no JSON object delimiters found")
	ErrJSONParse           = errors.New("JSON parse failed")
	ErrValidation          = errors.New("validation error") // Recovered locally, never surfaced
)

// InvalidInputError reports a missing or malformed article URL.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %s (%q)", ErrInvalidInput, e.Reason, e.Input)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// ConfigError reports a configuration problem detected while serving a request.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%v: %s", ErrConfig, e.Reason) }

func (e *ConfigError) Unwrap() error { return ErrConfig }

// FetchError reports a non-2xx response or a transport failure while fetching the article.
// StatusCode is 0 when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Hint       string
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString(ErrFetch.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Hint != "" {
		b.WriteString(": ")
		b.WriteString(e.Hint)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the fetch sentinel and the HTTP status class sentinel.
func (e *FetchError) Unwrap() []error {
	errs := []error{ErrFetch}
	switch {
	case e.StatusCode >= 500:
		errs = append(errs, ErrServerHTTPError)
	case e.StatusCode >= 400:
		errs = append(errs, ErrClientHTTPError)
	case e.StatusCode != 0:
		errs = append(errs, ErrOtherHTTPError)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// TimeoutError reports that the fetch deadline elapsed before the page was read.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v: fetching %s took longer than %v", ErrTimeout, e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTimeout, e.Err}
	}
	return []error{ErrTimeout}
}

// InsufficientContentError reports that neither readability nor the body fallback produced enough text.
type InsufficientContentError struct {
	URL           string
	ArticleChars  int
	FallbackChars int
	MinChars      int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("%v: %s yielded %d article chars and %d fallback chars (minimum %d)",
		ErrInsufficientContent, e.URL, e.ArticleChars, e.FallbackChars, e.MinChars)
}

func (e *InsufficientContentError) Unwrap() error { return ErrInsufficientContent }

// CompletionError wraps a failed call to the completion service.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrCompletion, e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() []error { return []error{ErrCompletion, e.Err} }

// EmptyCompletionError reports a completion response without any text segment.
type EmptyCompletionError struct {
	Provider string
	Choices  int
}

func (e *EmptyCompletionError) Error() string {
	return fmt.Sprintf("%v (%s, %d choices)", ErrEmptyCompletion, e.Provider, e.Choices)
}

func (e *EmptyCompletionError) Unwrap() error { return ErrEmptyCompletion }

// NoDelimitersError reports completion text without a usable {...} span.
// Start and End are -1 when the delimiter is missing.
type NoDelimitersError struct {
	Start int
	End   int
}

func (e *NoDelimitersError) Error() string {
	return fmt.Sprintf("%v (first '{' at %d, last '}' at %d)", ErrNoDelimiters, e.Start, e.End)
}

func (e *NoDelimitersError) Unwrap() error { return ErrNoDelimiters }

// ParseError carries the decoder failure plus the three stages of text for operator diagnostics.
// Raw, Extracted and Repaired are logged, never returned to API callers.
type ParseError struct {
	Message   string
	Offset    int64 // Byte offset reported by the decoder, -1 if unknown
	Raw       string
	Extracted string
	Repaired  string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%v at offset %d: %s", ErrJSONParse, e.Offset, e.Message)
	}
	return fmt.Sprintf("%v: %s", ErrJSONParse, e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrJSONParse, ErrParsing, e.Err}
	}
	return []error{ErrJSONParse, ErrParsing}
}

// ValidationError describes a malformed optional field that was dropped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// CategorizeError maps an error to a predefined category string for logging.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	var fetchErr *FetchError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "Input_InvalidURL"
	case errors.Is(err, ErrConfig), errors.Is(err, ErrConfigValidation):
		return "Config_Missing"
	case errors.Is(err, ErrTimeout):
		return "Fetch_Timeout"
	case errors.As(err, &fetchErr):
		switch {
		case fetchErr.StatusCode == 403:
			return "HTTP_403"
		case fetchErr.StatusCode == 404:
			return "HTTP_404"
		case fetchErr.StatusCode == 429:
			return "HTTP_429"
		case fetchErr.StatusCode >= 500:
			return "HTTP_5xx"
		case fetchErr.StatusCode >= 400:
			return "HTTP_4xx"
		case fetchErr.StatusCode != 0:
			return "HTTP_OtherStatus"
		}
		return categorizeNetwork(fetchErr.Err, "Fetch_Network")
	case errors.Is(err, ErrInsufficientContent):
		return "Content_Insufficient"
	case errors.Is(err, ErrEmptyCompletion):
		return "Completion_Empty"
	case errors.Is(err, ErrCompletion):
		return "Completion_Failed"
	case errors.Is(err, ErrNoDelimiters):
		return "Recovery_NoDelimiters"
	case errors.Is(err, ErrJSONParse):
		return "Recovery_Parse"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrValidation):
		return "Validation_Recovered"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	}

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}
	return categorizeNetwork(err, "Unknown")
}

// categorizeNetwork inspects transport-level failures that carry no sentinel.
func categorizeNetwork(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network_Timeout"
	}
	lowerErrMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerErrMsg, "connection refused"):
		return "Network_ConnectionRefused"
	case strings.Contains(lowerErrMsg, "no such host"):
		return "Network_DNSLookup"
	case strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate"):
		return "Network_TLS"
	case strings.Contains(lowerErrMsg, "reset by peer"):
		return "Network_ConnectionReset"
	}
	return fallback
}
