package process

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/parse"
)

// Image source attributes, in priority order. data-src covers lazy-loaded images.
var imageSourceAttrs = []string{"src", "data-src"}

// HarvestImages collects up to MaxAdditionalImages absolute http/https image URLs from the
// content region in document order. primaryImage (may be nil) is never repeated.
func (ce *ContentExtractor) HarvestImages(extraction *Extraction, pageURL *url.URL, primaryImage *string) []string {
	images := make([]string, 0)
	if extraction == nil || extraction.Fallback || extraction.ContentHTML == "" {
		return images
	}

	contentDoc, err := goquery.NewDocumentFromReader(strings.NewReader(extraction.ContentHTML))
	if err != nil {
		ce.log.WithError(err).Warn("Cannot parse content region for images")
		return images
	}

	seen := make(map[string]struct{})
	if primaryImage != nil {
		seen[*primaryImage] = struct{}{}
	}

	contentDoc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if len(images) >= MaxAdditionalImages {
			return false
		}

		imgURL, ok := resolveImageSource(img, pageURL)
		if !ok {
			return true
		}
		imgLog := ce.log.WithField("img_url", imgURL)

		if _, dup := seen[imgURL]; dup {
			return true
		}

		if isTooSmall(img) {
			imgLog.Debug("Skipping image below minimum dimensions")
			return true
		}

		if ce.isDisallowed(imgURL) {
			imgLog.Debug("Skipping image on disallowed domain")
			return true
		}

		seen[imgURL] = struct{}{}
		images = append(images, imgURL)
		return true
	})

	ce.log.WithFields(logrus.Fields{"count": len(images)}).Debug("Harvested content images")
	return images
}

func resolveImageSource(img *goquery.Selection, pageURL *url.URL) (string, bool) {
	for _, attr := range imageSourceAttrs {
		raw, exists := img.Attr(attr)
		if !exists {
			continue
		}
		if resolved, ok := parse.ResolveHTTPURL(pageURL, raw); ok {
			return resolved, true
		}
	}
	return "", false
}

// isTooSmall is true only when both dimensions are declared and both are below the minimum.
// Missing, zero or unparsable dimensions count as undeclared.
func isTooSmall(img *goquery.Selection) bool {
	width := declaredDimension(img, "width")
	height := declaredDimension(img, "height")
	if width <= 0 || height <= 0 {
		return false
	}
	return width < MinImageDimension && height < MinImageDimension
}

func declaredDimension(img *goquery.Selection, attr string) int {
	raw, exists := img.Attr(attr)
	if !exists {
		return 0
	}
	raw = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(raw)), "px")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (ce *ContentExtractor) isDisallowed(imgURL string) bool {
	if len(ce.disallowedDomains) == 0 {
		return false
	}
	u, err := url.Parse(imgURL)
	if err != nil {
		return true
	}
	for _, pattern := range ce.disallowedDomains {
		if matchDomain(u.Hostname(), pattern) {
			return true
		}
	}
	return false
}

// matchDomain checks if a host matches a pattern (exact or simple wildcard *.example.com)
func matchDomain(host string, pattern string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)

	if strings.HasPrefix(pattern, "*.") {
		// *.example.com matches sub.example.com and example.com itself
		suffix := pattern[1:]
		return strings.HasSuffix(host, suffix) || (len(suffix) > 1 && host == suffix[1:])
	}
	return host == pattern
}
