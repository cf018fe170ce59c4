package detect

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Article is the subset of a readability result the pipeline consumes.
type Article struct {
	Title       string
	Byline      string
	SiteName    string
	TextContent string // Plain text of the main content, trimmed
	Content     string // HTML of the main content region
}

// ReadabilityExtractor extracts main content using Mozilla's Readability algorithm
type ReadabilityExtractor struct{}

// NewReadabilityExtractor creates a new readability-based content extractor
func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{}
}

// Extract runs readability against the raw page HTML.
// pageURL is used to absolutise links inside the extracted content.
func (r *ReadabilityExtractor) Extract(html []byte, pageURL *url.URL) (*Article, error) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return nil, fmt.Errorf("readability extraction failed: %w", err)
	}

	if article.Content == "" && strings.TrimSpace(article.TextContent) == "" {
		return nil, fmt.Errorf("readability extracted empty content")
	}

	return &Article{
		Title:       strings.TrimSpace(article.Title),
		Byline:      strings.TrimSpace(article.Byline),
		SiteName:    strings.TrimSpace(article.SiteName),
		TextContent: strings.TrimSpace(article.TextContent),
		Content:     article.Content,
	}, nil
}
