package detect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/parse"
)

// DisplayDateLayout is the "Month Day, Year" form used for published dates
const DisplayDateLayout = "January 2, 2006"

// selectorStrategy reads one candidate value from the document.
// An empty Attr means the element's text is used.
type selectorStrategy struct {
	Selector string
	Attr     string
}

// Strategies are tried in order; the first non-empty value wins.
var (
	primaryImageStrategies = []selectorStrategy{
		{Selector: `meta[property="og:image"]`, Attr: "content"},
		{Selector: `meta[name="og:image"]`, Attr: "content"},
		{Selector: `meta[name="twitter:image"]`, Attr: "content"},
		{Selector: `meta[property="twitter:image"]`, Attr: "content"},
		{Selector: `link[rel="image_src"]`, Attr: "href"},
	}

	publishedDateStrategies = []selectorStrategy{
		{Selector: `meta[property="article:published_time"]`, Attr: "content"},
		{Selector: `meta[name="pubdate"]`, Attr: "content"},
		{Selector: `meta[name="publishdate"]`, Attr: "content"},
		{Selector: `meta[name="date"]`, Attr: "content"},
		{Selector: `time[datetime]`, Attr: "datetime"},
		{Selector: `time`},
	}

	authorStrategies = []selectorStrategy{
		{Selector: `meta[name="author"]`, Attr: "content"},
		{Selector: `meta[property="article:author"]`, Attr: "content"},
		{Selector: `[rel="author"]`},
		{Selector: `.author`},
	}

	siteNameStrategies = []selectorStrategy{
		{Selector: `meta[property="og:site_name"]`, Attr: "content"},
		{Selector: `meta[name="application-name"]`, Attr: "content"},
	}
)

var bylinePrefix = regexp.MustCompile(`(?i)^by\s+`)

// MetadataExtractor pulls the primary image, publication date and author out of a parsed page.
type MetadataExtractor struct {
	log *logrus.Entry
}

// NewMetadataExtractor creates a new metadata extractor
func NewMetadataExtractor(log *logrus.Entry) *MetadataExtractor {
	return &MetadataExtractor{log: log.WithField("component", "metadata")}
}

// Extract is best-effort: a panic while reading the document clears every field and is logged, never propagated.
// AdditionalImageURLs is left empty; images inside the content region are harvested later.
func (m *MetadataExtractor) Extract(doc *goquery.Document, pageURL *url.URL) (meta models.ScrapedMetadata) {
	defer func() {
		if r := recover(); r != nil {
			m.log.WithField("panic", r).Warn("Metadata extraction failed, continuing without metadata")
			meta = models.ScrapedMetadata{}
		}
	}()

	if raw, ok := firstMatch(doc, primaryImageStrategies); ok {
		if resolved, ok := parse.ResolveHTTPURL(pageURL, raw); ok {
			meta.PrimaryImageURL = &resolved
		} else {
			m.log.WithField("raw", raw).Debug("Discarding primary image with unusable URL")
		}
	}

	if raw, ok := firstMatch(doc, publishedDateStrategies); ok {
		date := NormalizeDate(raw)
		meta.PublishedDate = &date
	}

	if raw, ok := firstMatch(doc, authorStrategies); ok {
		if author := CleanAuthor(raw); author != "" {
			meta.Author = &author
		}
	}

	m.log.WithFields(logrus.Fields{
		"has_image":  meta.PrimaryImageURL != nil,
		"has_date":   meta.PublishedDate != nil,
		"has_author": meta.Author != nil,
	}).Debug("Metadata extracted")

	return meta
}

// SiteName returns the publisher name declared in the page head, or "".
func SiteName(doc *goquery.Document) string {
	value, _ := firstMatch(doc, siteNameStrategies)
	return value
}

// DocumentTitle returns the trimmed <title> text, or "".
func DocumentTitle(doc *goquery.Document) string {
	return collapseSpace(doc.Find("title").First().Text())
}

// NormalizeDate reformats a parseable date as "Month Day, Year" and keeps anything else verbatim.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format(DisplayDateLayout)
}

// CleanAuthor trims the author string and strips a leading "by ".
func CleanAuthor(raw string) string {
	author := collapseSpace(raw)
	author = bylinePrefix.ReplaceAllString(author, "")
	return strings.TrimSpace(author)
}

func firstMatch(doc *goquery.Document, strategies []selectorStrategy) (string, bool) {
	for _, s := range strategies {
		sel := doc.Find(s.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		var value string
		if s.Attr != "" {
			value, _ = sel.Attr(s.Attr)
		} else {
			value = sel.Text()
		}
		if value = collapseSpace(value); value != "" {
			return value, true
		}
	}
	return "", false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
