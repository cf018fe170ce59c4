// Package render turns a StoryRecord into Markdown or a standalone HTML page for the CLI.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sriram-PR/storylens/pkg/models"
)

type dimension struct {
	Key   string
	Label string
	Value func(*models.EngagementScore) int
}

var dimensions = []dimension{
	{"scannability", "Scannability", func(s *models.EngagementScore) int { return s.Scannability }},
	{"personalization", "Personalization", func(s *models.EngagementScore) int { return s.Personalization }},
	{"interactivity", "Interactivity", func(s *models.EngagementScore) int { return s.Interactivity }},
	{"curation", "Curation", func(s *models.EngagementScore) int { return s.Curation }},
	{"emotionalEngagement", "Emotional engagement", func(s *models.EngagementScore) int { return s.EmotionalEngagement }},
}

// Markdown renders record as a Markdown document. Fact section headings carry {#id} attributes
// so their anchors match the record's section ids.
func Markdown(record *models.StoryRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", oneLine(record.Title))

	byline := []string{"*" + oneLine(record.Source) + "*"}
	if record.Author != nil {
		byline = append(byline, oneLine(*record.Author))
	}
	byline = append(byline, oneLine(record.Date))
	b.WriteString(strings.Join(byline, " | "))
	b.WriteString("\n\n")

	if record.PrimaryImageURL != nil {
		fmt.Fprintf(&b, "![%s](%s)\n\n", oneLine(record.Title), *record.PrimaryImageURL)
	}

	if record.Summary != "" {
		b.WriteString(strings.TrimSpace(record.Summary))
		b.WriteString("\n\n")
	}

	if len(record.Highlights) > 0 {
		b.WriteString("## Highlights\n\n")
		for _, h := range record.Highlights {
			fmt.Fprintf(&b, "- %s\n", oneLine(h))
		}
		b.WriteString("\n")
	}

	if len(record.FactSections) > 0 {
		b.WriteString("## Contents\n\n")
		for _, s := range record.FactSections {
			fmt.Fprintf(&b, "- [%s](#%s)\n", oneLine(s.Title), s.ID)
		}
		b.WriteString("\n")

		for _, s := range record.FactSections {
			fmt.Fprintf(&b, "## %s {#%s}\n\n%s\n\n", oneLine(s.Title), s.ID, strings.TrimSpace(s.Content))
		}
	}

	if len(record.Quotes) > 0 {
		b.WriteString("## Quotes\n\n")
		for _, q := range record.Quotes {
			fmt.Fprintf(&b, "> %s\n", oneLine(q.Text))
			if attribution := quoteAttribution(q); attribution != "" {
				fmt.Fprintf(&b, ">\n> %s\n", attribution)
			}
			b.WriteString("\n")
		}
	}

	if record.EngagementScore != nil {
		writeEngagement(&b, record.EngagementScore)
	}

	if len(record.AdditionalImageURLs) > 0 {
		b.WriteString("## Images\n\n")
		for _, u := range record.AdditionalImageURLs {
			fmt.Fprintf(&b, "- ![](%s)\n", u)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "[Read the original article](%s)\n", record.OriginalURL)
	return b.String()
}

func writeEngagement(b *strings.Builder, score *models.EngagementScore) {
	b.WriteString("## Engagement score\n\n")
	b.WriteString("| Dimension | Score |\n|---|---|\n")
	for _, d := range dimensions {
		fmt.Fprintf(b, "| %s | %d |\n", d.Label, d.Value(score))
	}
	fmt.Fprintf(b, "| **Total** | **%d** |\n\n", score.Total)

	keys := justificationOrder(score.Justification)
	if len(keys) == 0 {
		return
	}
	labels := make(map[string]string, len(dimensions))
	for _, d := range dimensions {
		labels[d.Key] = d.Label
	}
	for _, k := range keys {
		label := labels[k]
		if label == "" {
			label = k
		}
		fmt.Fprintf(b, "- **%s:** %s\n", label, oneLine(score.Justification[k]))
	}
	b.WriteString("\n")
}

// justificationOrder lists the known dimensions first, then any extra keys alphabetically.
func justificationOrder(justification map[string]string) []string {
	keys := make([]string, 0, len(justification))
	known := make(map[string]bool, len(dimensions))
	for _, d := range dimensions {
		known[d.Key] = true
		if _, ok := justification[d.Key]; ok {
			keys = append(keys, d.Key)
		}
	}
	var extra []string
	for k := range justification {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func quoteAttribution(q models.Quote) string {
	var parts []string
	if q.Speaker != nil && strings.TrimSpace(*q.Speaker) != "" {
		parts = append(parts, oneLine(*q.Speaker))
	}
	if q.Context != nil && strings.TrimSpace(*q.Context) != "" {
		parts = append(parts, "*"+oneLine(*q.Context)+"*")
	}
	if len(parts) == 0 {
		return ""
	}
	return "-- " + strings.Join(parts, ", ")
}

// oneLine keeps a value on a single Markdown line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
