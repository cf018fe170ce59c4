// Package prompt renders the fixed instruction template sent to the completion service.
//
// The wording of the output rules is load-bearing: the JSON repair step only handles the
// defects that remain after a model follows these exact instructions. Change both together.
package prompt

import (
	"strings"
	"text/template"
	"unicode/utf8"
)

// TruncationMarker is appended when the article text exceeds the character budget.
const TruncationMarker = "\n\n[... article truncated ...]"

// DefaultMaxArticleChars is the article budget when Input.MaxArticleChars is zero.
const DefaultMaxArticleChars = 150000

// Unknown stands in for any absent hint.
const Unknown = "Unknown"

// Input carries the extracted article and scraped hints. Empty hints render as "Unknown".
type Input struct {
	Text            string
	Title           string
	Source          string
	Date            string
	Author          string
	MaxArticleChars int
}

type templateData struct {
	Title   string
	Source  string
	Date    string
	Author  string
	Article string
}

var promptTemplate = template.Must(template.New("analysis").Parse(analysisTemplate))

// Build renders the prompt. It is pure: identical inputs always yield identical bytes.
func Build(in Input) string {
	data := templateData{
		Title:   hint(in.Title),
		Source:  hint(in.Source),
		Date:    hint(in.Date),
		Author:  hint(in.Author),
		Article: Truncate(in.Text, in.MaxArticleChars),
	}

	var b strings.Builder
	// The template is parsed at init and the data is plain strings, so Execute cannot fail.
	if err := promptTemplate.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}

// Truncate keeps at most limit characters of text and appends TruncationMarker when it cuts.
// A non-positive limit selects DefaultMaxArticleChars.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxArticleChars
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + TruncationMarker
}

func hint(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Unknown
	}
	return value
}

// text/template does not HTML-escape, so article text reaches the model verbatim.
const analysisTemplate = `You are a news analyst. Read the article below and produce a structured analysis of it.

Respond with a single JSON object and nothing else. Your response must begin with { and end with }.
Do not wrap it in markdown code fences. Do not add any commentary before or after the object.

The object must have exactly these fields:
- "title" (string): the headline of the story.
- "source" (string): the publication the story comes from.
- "author" (string): the author's name, or "Unknown" if it cannot be determined.
- "date" (string): the publication date as "Month Day, Year", or "Unknown" if it cannot be determined.
- "summary" (string): a synopsis of the story in two to four sentences.
- "highlights" (array of strings): the key points of the story, at most 4 items.
- "factSections" (array of objects): between 3 and 5 sections, one per sub-topic of the story. Each object has:
    - "title" (string): a short heading for the sub-topic.
    - "content" (string): a factual paragraph covering that sub-topic.
- "quotes" (array of objects): notable direct quotations from the article, possibly empty. Each object has:
    - "text" (string): the exact quoted words.
    - "speaker" (string): who said it, or "Unknown".
    - "context" (string): one sentence on the circumstances of the quote.
- "engagementScore" (object): how engaging the article is for a general reader, with:
    - "scannability" (integer 1-5)
    - "personalization" (integer 1-5)
    - "interactivity" (integer 1-5)
    - "curation" (integer 1-5)
    - "emotionalEngagement" (integer 1-5)
    - "total" (integer 5-25): the sum of the five scores above.
    - "justification" (object): one short string per dimension, keyed by the dimension name.

String values must be valid JSON strings. Escape characters exactly as follows:
| Character       | Write it as |
|-----------------|-------------|
| double quote "  | \"          |
| backslash \     | \\          |
| newline         | \n          |
| tab             | \t          |
| carriage return | \r          |

Never escape single quotes. Write ' as is, never as \'.
Do not place a backslash before spaces or line breaks.

Known details about the article (use them unless the article clearly says otherwise):
Title: {{.Title}}
Source: {{.Source}}
Date: {{.Date}}
Author: {{.Author}}

Article:
{{.Article}}
`
