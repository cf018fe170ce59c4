package process

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

// Elements dropped before Markdown conversion: page furniture readability sometimes keeps
const markdownNoiseSelector = "script, style, noscript, form, button, figure figcaption:empty, .share, .social, .newsletter"

// ToMarkdown converts extracted content HTML to Markdown.
// In fallback mode there is no content HTML, so the plain text is returned unchanged.
func ToMarkdown(extraction *Extraction) (string, error) {
	if extraction.ContentHTML == "" {
		return extraction.Content.Text, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(extraction.ContentHTML))
	if err != nil {
		return "", fmt.Errorf("%w: content HTML: %w", utils.ErrParsing, err)
	}
	cleanupHTML(doc.Selection)

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("%w: content HTML: %w", utils.ErrParsing, err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// cleanupHTML removes unwanted elements from HTML before markdown conversion
func cleanupHTML(content *goquery.Selection) {
	content.Find(markdownNoiseSelector).Remove()

	// Remove permalink anchors that carry no text
	content.Find("a").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if text == "¶" || text == "#" || (text == "" && s.Find("img").Length() == 0 && strings.HasPrefix(href, "#")) {
			s.Remove()
		}
	})
}
