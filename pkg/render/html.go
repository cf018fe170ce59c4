package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/Sriram-PR/storylens/pkg/models"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAttribute()),
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article>
%s</article>
</body>
</html>
`

// HTML renders record as a standalone page, converting the Markdown rendering with goldmark.
func HTML(record *models.StoryRecord) (string, error) {
	var body bytes.Buffer
	if err := markdownEngine.Convert([]byte(Markdown(record)), &body); err != nil {
		return "", fmt.Errorf("converting markdown to HTML: %w", err)
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(record.Title), body.String()), nil
}
