package orchestrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/assemble"
	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/detect"
	"github.com/Sriram-PR/storylens/pkg/fetch"
	"github.com/Sriram-PR/storylens/pkg/jsonrepair"
	applog "github.com/Sriram-PR/storylens/pkg/log"
	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/parse"
	"github.com/Sriram-PR/storylens/pkg/process"
	"github.com/Sriram-PR/storylens/pkg/prompt"
	"github.com/Sriram-PR/storylens/pkg/response"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// Completer sends a prompt to the completion service and returns its raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline turns one article URL into a StoryRecord. Stages run strictly in sequence and the
// first failure ends the run; nothing is retried.
type Pipeline struct {
	cfg       *config.AppConfig
	fetcher   *fetch.Fetcher
	metadata  *detect.MetadataExtractor
	content   *process.ContentExtractor
	completer Completer
	log       *logrus.Entry
}

// NewPipeline wires the stages around a shared HTTP client. completer may be nil when no
// credential is configured; Run then fails with a *utils.ConfigError.
func NewPipeline(cfg *config.AppConfig, httpClient *http.Client, completer Completer, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		fetcher:   fetch.NewFetcher(httpClient, cfg, log),
		metadata:  detect.NewMetadataExtractor(log),
		content:   process.NewContentExtractor(cfg, log),
		completer: completer,
		log:       log.WithField("component", "pipeline"),
	}
}

// page is everything read from the article before the model is involved
type page struct {
	finalURL   *url.URL
	meta       models.ScrapedMetadata
	extraction *process.Extraction
}

// Run executes the full pipeline for articleURL.
func (p *Pipeline) Run(ctx context.Context, articleURL string) (*models.StoryRecord, error) {
	runLog := applog.FromContext(ctx, p.log).WithField("url", articleURL)
	startTime := time.Now()

	if err := p.cfg.RequireCredential(); err != nil {
		runLog.WithError(err).Error("Completion credential missing")
		return nil, err
	}
	if p.completer == nil {
		return nil, &utils.ConfigError{Reason: "completion client is not initialized"}
	}

	pg, err := p.gather(ctx, articleURL, runLog)
	if err != nil {
		return nil, err
	}

	input := prompt.Input{
		Text:            pg.extraction.Content.Text,
		Title:           pg.extraction.Content.Title,
		Source:          pg.extraction.Content.InferredSource,
		Date:            deref(pg.meta.PublishedDate),
		Author:          deref(pg.meta.Author),
		MaxArticleChars: p.cfg.MaxArticleChars,
	}
	rendered := prompt.Build(input)

	raw, err := p.completer.Complete(ctx, rendered)
	if err != nil {
		runLog.WithError(err).WithField("category", utils.CategorizeError(err)).Error("Completion failed")
		return nil, err
	}

	obj, err := jsonrepair.Recover(raw)
	if err != nil {
		logRecoveryFailure(runLog, raw, err)
		return nil, err
	}

	analysis := response.Validate(obj, runLog)
	record := assemble.Assemble(analysis, pg.meta, pg.extraction.Content, articleURL)

	runLog.WithFields(logrus.Fields{
		"duration":      time.Since(startTime),
		"fact_sections": len(record.FactSections),
		"images":        len(record.AdditionalImageURLs),
		"has_score":     record.EngagementScore != nil,
		"fallback":      pg.extraction.Fallback,
	}).Info("Article summarized")
	return record, nil
}

// gather validates the URL, fetches the page and runs both extractors. Relative links resolve
// against the post-redirect URL.
func (p *Pipeline) gather(ctx context.Context, articleURL string, runLog *logrus.Entry) (*page, error) {
	parsedURL, err := parse.ParseArticleURL(articleURL)
	if err != nil {
		runLog.WithError(err).Warn("Rejected article URL")
		return nil, err
	}

	result, err := p.fetcher.Fetch(ctx, parsedURL.String())
	if err != nil {
		runLog.WithError(err).WithField("category", utils.CategorizeError(err)).Error("Fetch failed")
		return nil, err
	}

	finalURL := parsedURL
	if result.FinalURL != "" {
		if u, perr := url.Parse(result.FinalURL); perr == nil {
			finalURL = u
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML document: %w", utils.ErrParsing, err)
	}

	meta := p.metadata.Extract(doc, finalURL)

	extraction, err := p.content.Extract(result.Body, doc, finalURL)
	if err != nil {
		runLog.WithError(err).Error("Content extraction failed")
		return nil, err
	}

	meta.AdditionalImageURLs = p.content.HarvestImages(extraction, finalURL, meta.PrimaryImageURL)
	if meta.Author == nil {
		if byline := detect.CleanAuthor(extraction.Content.Byline); byline != "" {
			meta.Author = &byline
		}
	}

	return &page{finalURL: finalURL, meta: meta, extraction: extraction}, nil
}

// logRecoveryFailure keeps the model text out of error-level logs; it is only written at debug.
func logRecoveryFailure(runLog *logrus.Entry, raw string, err error) {
	fields := logrus.Fields{
		"category": utils.CategorizeError(err),
		"raw_len":  len(raw),
	}

	var parseErr *utils.ParseError
	if errors.As(err, &parseErr) {
		fields["offset"] = parseErr.Offset
		fields["extracted_len"] = len(parseErr.Extracted)
		fields["repaired_len"] = len(parseErr.Repaired)
		runLog.WithFields(logrus.Fields{
			"raw":       parseErr.Raw,
			"extracted": parseErr.Extracted,
			"repaired":  parseErr.Repaired,
		}).Debug("Unrecoverable completion text")
	} else {
		runLog.WithField("raw", raw).Debug("Unrecoverable completion text")
	}

	runLog.WithError(err).WithFields(fields).Error("Could not recover JSON from completion")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Health reports whether summaries can be produced. It never contacts the completion service.
func (p *Pipeline) Health() models.Health {
	return models.Health{
		Status:               "ok",
		CompletionConfigured: p.cfg.HasCredential() && p.completer != nil,
		Provider:             p.cfg.Completion.Provider,
		Model:                p.cfg.Completion.Model,
	}
}
