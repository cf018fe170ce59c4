package parse

import (
	"net/url"
	"strings"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

// ParseArticleURL validates a caller-supplied article URL.
// It uses the stricter url.ParseRequestURI (requiring an absolute URL) and accepts only http/https with a host.
func ParseArticleURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &utils.InvalidInputError{Input: raw, Reason: "article URL is required"}
	}

	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return nil, &utils.InvalidInputError{Input: raw, Reason: "article URL is not a valid absolute URL"}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &utils.InvalidInputError{Input: raw, Reason: "article URL must use http or https"}
	}
	if parsed.Host == "" {
		return nil, &utils.InvalidInputError{Input: raw, Reason: "article URL has no host"}
	}

	return parsed, nil
}

// ResolveHTTPURL resolves ref against base and reports whether the result is an absolute http/https URL.
// Any resolution failure yields ("", false); it never surfaces as an error.
func ResolveHTTPURL(base *url.URL, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	resolved := refURL
	if base != nil {
		resolved = base.ResolveReference(refURL)
	}

	switch strings.ToLower(resolved.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	if resolved.Host == "" {
		return "", false
	}

	return resolved.String(), true
}

// Hostname returns the lower-cased host of u without port and without a leading "www.".
func Hostname(u *url.URL) string {
	if u == nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
