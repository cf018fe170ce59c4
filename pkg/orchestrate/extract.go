package orchestrate

import (
	"context"
	"fmt"

	applog "github.com/Sriram-PR/storylens/pkg/log"
	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/process"
)

// ExtractResult is what the page yields without the completion service.
type ExtractResult struct {
	URL      string                  `json:"url"`
	FinalURL string                  `json:"finalUrl"`
	Content  models.ExtractedContent `json:"content"`
	Metadata models.ScrapedMetadata  `json:"metadata"`
	Fallback bool                    `json:"fallback"`
	Markdown string                  `json:"markdown"`
}

// Extract fetches articleURL and runs metadata and content extraction only.
// It needs no completion credential.
func (p *Pipeline) Extract(ctx context.Context, articleURL string) (*ExtractResult, error) {
	runLog := applog.FromContext(ctx, p.log).WithField("url", articleURL)

	pg, err := p.gather(ctx, articleURL, runLog)
	if err != nil {
		return nil, err
	}

	markdown, err := process.ToMarkdown(pg.extraction)
	if err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	runLog.WithField("markdown_len", len(markdown)).Debug("Article extracted")
	return &ExtractResult{
		URL:      articleURL,
		FinalURL: pg.finalURL.String(),
		Content:  pg.extraction.Content,
		Metadata: pg.meta,
		Fallback: pg.extraction.Fallback,
		Markdown: markdown,
	}, nil
}
