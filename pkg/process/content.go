package process

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/detect"
	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/parse"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

const (
	// MinContentChars is the shortest article text, in characters, worth summarising
	MinContentChars = 150
	// MaxAdditionalImages caps the in-content images kept per article
	MaxAdditionalImages = 10
	// MinImageDimension rejects images whose declared width and height are both smaller
	MinImageDimension = 50
)

// Elements whose text never belongs to the article body
const nonContentSelector = "script, style, noscript, template, svg, iframe"

// Extraction is the outcome of content extraction for one page.
type Extraction struct {
	Content models.ExtractedContent
	// ContentHTML is the readability content region; empty in fallback mode
	ContentHTML string
	Fallback    bool
}

// ContentExtractor derives the readable article text, falling back to the page body.
type ContentExtractor struct {
	readability       *detect.ReadabilityExtractor
	disallowedDomains []string
	log               *logrus.Entry
}

// NewContentExtractor creates a ContentExtractor
func NewContentExtractor(cfg *config.AppConfig, log *logrus.Entry) *ContentExtractor {
	return &ContentExtractor{
		readability:       detect.NewReadabilityExtractor(),
		disallowedDomains: cfg.DisallowedImageDomains,
		log:               log.WithField("component", "content"),
	}
}

// Extract runs readability over the raw HTML and falls back to the whole body text when the
// result is missing or shorter than MinContentChars. Fails with *utils.InsufficientContentError
// when neither strategy reaches the minimum.
func (ce *ContentExtractor) Extract(html []byte, doc *goquery.Document, pageURL *url.URL) (*Extraction, error) {
	article, err := ce.readability.Extract(html, pageURL)
	if err != nil {
		ce.log.WithError(err).Debug("Readability produced no article")
		article = &detect.Article{}
	}

	result := &Extraction{
		Content: models.ExtractedContent{
			Title:          firstNonEmpty(article.Title, detect.DocumentTitle(doc), parse.Hostname(pageURL)),
			InferredSource: firstNonEmpty(article.SiteName, detect.SiteName(doc), parse.Hostname(pageURL)),
			Byline:         article.Byline,
		},
	}

	articleChars := utf8.RuneCountInString(article.TextContent)
	if articleChars >= MinContentChars {
		result.Content.Text = article.TextContent
		result.ContentHTML = article.Content
		ce.log.WithField("chars", articleChars).Debug("Using readability content")
		return result, nil
	}

	bodyText := BodyText(doc)
	fallbackChars := utf8.RuneCountInString(bodyText)
	if fallbackChars < MinContentChars {
		return nil, &utils.InsufficientContentError{
			URL:           pageURL.String(),
			ArticleChars:  articleChars,
			FallbackChars: fallbackChars,
			MinChars:      MinContentChars,
		}
	}

	ce.log.WithFields(logrus.Fields{
		"article_chars":  articleChars,
		"fallback_chars": fallbackChars,
	}).Info("Readability content too short, using page body text")

	result.Content.Text = bodyText
	result.Fallback = true
	return result, nil
}

// BodyText returns the whitespace-collapsed text of <body> without scripts and styles.
func BodyText(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	clone := body.Clone()
	clone.Find(nonContentSelector).Remove()
	return strings.Join(strings.Fields(clone.Text()), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
