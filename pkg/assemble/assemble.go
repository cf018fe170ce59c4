package assemble

import (
	"fmt"
	"strings"

	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// unknown is how the model and the prompt spell an absent value
const unknown = "Unknown"

// Assemble merges the validated model output with the scraped signals.
// Narrative fields come from the model; images always come from the page. Title and source fall
// back to what extraction inferred; author and date fall back to scraped metadata when the model
// gave nothing usable.
func Assemble(analysis *models.Analysis, meta models.ScrapedMetadata, content models.ExtractedContent, originalURL string) *models.StoryRecord {
	record := &models.StoryRecord{
		Title:               firstKnown(analysis.Title, content.Title),
		Source:              firstKnown(analysis.Source, content.InferredSource),
		Date:                firstKnown(analysis.Date, deref(meta.PublishedDate), unknown),
		Summary:             analysis.Summary,
		Highlights:          nonNil(analysis.Highlights),
		FactSections:        withIDs(analysis.FactSections),
		Quotes:              analysis.Quotes,
		EngagementScore:     analysis.EngagementScore,
		PrimaryImageURL:     meta.PrimaryImageURL,
		AdditionalImageURLs: nonNil(meta.AdditionalImageURLs),
		OriginalURL:         originalURL,
	}

	if author := firstKnown(deref(analysis.Author), deref(meta.Author)); author != "" {
		record.Author = &author
	}

	return record
}

// SectionID derives the anchor id for a fact section. n is the 1-based position, used only
// when the title yields an empty slug.
func SectionID(title string, n int) string {
	if slug := utils.Slugify(title); slug != "" {
		return slug
	}
	return fmt.Sprintf("section-%d", n)
}

func withIDs(sections []models.FactSection) []models.FactSection {
	result := make([]models.FactSection, 0, len(sections))
	for i, s := range sections {
		s.ID = SectionID(s.Title, i+1)
		result = append(result, s)
	}
	return result
}

// firstKnown returns the first value that is neither blank nor "Unknown".
// The last candidate is returned as-is when nothing else qualifies, so callers can pass a default.
func firstKnown(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !strings.EqualFold(v, unknown) {
			return v
		}
	}
	if len(values) > 0 && values[len(values)-1] == unknown {
		return unknown
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
