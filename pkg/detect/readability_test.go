package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadabilityExtractor_Article(t *testing.T) {
	paragraph := strings.Repeat("The river rose steadily through the night as volunteers stacked sandbags along the levee. ", 8)
	html := `<!DOCTYPE html>
<html>
<head><title>Flood Watch | The Daily</title><meta property="og:site_name" content="The Daily"></head>
<body>
<nav><a href="/">Home</a><a href="/news">News</a></nav>
<article>
<h1>Flood Watch</h1>
<p>` + paragraph + `</p>
<p>` + paragraph + `</p>
<img src="/photos/levee.jpg" width="800" height="600">
<p>` + paragraph + `</p>
</article>
<footer>Copyright</footer>
</body>
</html>`

	article, err := NewReadabilityExtractor().Extract([]byte(html), mustURL(t, "https://daily.example/news/flood"))

	require.NoError(t, err)
	assert.NotEmpty(t, article.Title)
	assert.Contains(t, article.TextContent, "volunteers stacked sandbags")
	assert.Contains(t, article.Content, "levee.jpg")
	assert.Equal(t, "The Daily", article.SiteName)
}
