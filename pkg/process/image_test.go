package process

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func contentWithImages(imgs ...string) *Extraction {
	return &Extraction{ContentHTML: "<div>" + strings.Join(imgs, "\n") + "</div>"}
}

func TestHarvestImages_Rules(t *testing.T) {
	primary := "https://www.daily.example/img/lead.jpg"
	extraction := contentWithImages(
		`<img src="/img/lead.jpg">`,
		`<img src="/img/one.jpg" width="800" height="600">`,
		`<img src="/img/one.jpg">`,
		`<img src="/img/tiny.gif" width="10" height="10">`,
		`<img src="/img/zero.png" width="0" height="0">`,
		`<img src="/img/wide.png" width="10" height="200">`,
		`<img src="ftp://daily.example/x.jpg">`,
		`<img src="data:image/png;base64,AAAA" data-src="lazy.jpg">`,
		`<img>`,
	)

	images := testExtractor().HarvestImages(extraction, pageURL(t), &primary)

	assert.Equal(t, []string{
		"https://www.daily.example/img/one.jpg",   // lead.jpg is the primary, the repeat and tiny.gif are dropped
		"https://www.daily.example/img/zero.png",  // undeclared dimensions
		"https://www.daily.example/img/wide.png",  // only one side is small
		"https://www.daily.example/news/lazy.jpg", // data: src falls through to data-src
	}, images)
}

func TestHarvestImages_CapAtTen(t *testing.T) {
	var imgs []string
	for i := 0; i < 25; i++ {
		imgs = append(imgs, fmt.Sprintf(`<img src="/img/%d.jpg">`, i))
	}

	images := testExtractor().HarvestImages(contentWithImages(imgs...), pageURL(t), nil)

	assert.Len(t, images, MaxAdditionalImages)
	assert.Equal(t, "https://www.daily.example/img/0.jpg", images[0])
	assert.Equal(t, "https://www.daily.example/img/9.jpg", images[9])
}

func TestHarvestImages_DisallowedDomains(t *testing.T) {
	extraction := contentWithImages(
		`<img src="https://ads.tracker.net/pixel.jpg">`,
		`<img src="https://tracker.net/banner.jpg">`,
		`<img src="https://cdn.daily.example/photo.jpg">`,
	)

	images := testExtractor("*.tracker.net").HarvestImages(extraction, pageURL(t), nil)

	assert.Equal(t, []string{"https://cdn.daily.example/photo.jpg"}, images)
}

func TestHarvestImages_FallbackHasNoImages(t *testing.T) {
	extraction := contentWithImages(`<img src="/img/one.jpg">`)
	extraction.Fallback = true

	images := testExtractor().HarvestImages(extraction, pageURL(t), nil)

	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		html     string
		expected bool
	}{
		{`<img width="10" height="10">`, true},
		{`<img width="49px" height="49px">`, true},
		{`<img width="50" height="10">`, false},
		{`<img width="0" height="0">`, false},
		{`<img width="auto" height="10">`, false},
		{`<img>`, false},
	}
	for _, tt := range tests {
		doc := parseDoc(t, "<html><body>"+tt.html+"</body></html>")
		assert.Equal(t, tt.expected, isTooSmall(doc.Find("img").First()), tt.html)
	}
}

func TestMatchDomain(t *testing.T) {
	assert.True(t, matchDomain("a.example.com", "*.example.com"))
	assert.True(t, matchDomain("example.com", "*.example.com"))
	assert.False(t, matchDomain("badexample.com", "*.example.com"))
	assert.True(t, matchDomain("Example.com", "example.com"))
	assert.False(t, matchDomain("sub.example.com", "example.com"))
}
