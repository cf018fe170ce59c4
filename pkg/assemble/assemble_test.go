package assemble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/storylens/pkg/models"
)

func strPtr(s string) *string { return &s }

func baseAnalysis() *models.Analysis {
	return &models.Analysis{
		Title:      "Model Title",
		Source:     "Model Source",
		Author:     strPtr("Model Author"),
		Date:       "April 1, 2024",
		Summary:    "Summary.",
		Highlights: []string{"h1"},
		FactSections: []models.FactSection{
			{Title: "Rose Development: Details!", Content: "c1"},
			{Title: "!!!", Content: "c2"},
			{Title: "Rose Development: Details!", Content: "c3"},
		},
	}
}

func TestAssemble_ModelFieldsWin(t *testing.T) {
	meta := models.ScrapedMetadata{
		PrimaryImageURL:     strPtr("https://x.com/a.jpg"),
		AdditionalImageURLs: []string{"https://x.com/b.jpg"},
		PublishedDate:       strPtr("March 5, 2024"),
		Author:              strPtr("Scraped Author"),
	}
	content := models.ExtractedContent{Title: "Page Title", InferredSource: "x.com"}

	record := Assemble(baseAnalysis(), meta, content, "https://x.com/news/1?ref=a")

	assert.Equal(t, "Model Title", record.Title)
	assert.Equal(t, "Model Source", record.Source)
	require.NotNil(t, record.Author)
	assert.Equal(t, "Model Author", *record.Author)
	assert.Equal(t, "April 1, 2024", record.Date)
	assert.Equal(t, "https://x.com/a.jpg", *record.PrimaryImageURL)
	assert.Equal(t, []string{"https://x.com/b.jpg"}, record.AdditionalImageURLs)
	assert.Equal(t, "https://x.com/news/1?ref=a", record.OriginalURL, "original URL is kept verbatim")
}

func TestAssemble_ScrapedFallbacks(t *testing.T) {
	analysis := &models.Analysis{Title: " ", Source: "", Author: strPtr("Unknown"), Date: "unknown"}
	meta := models.ScrapedMetadata{PublishedDate: strPtr("March 5, 2024"), Author: strPtr("Scraped Author")}
	content := models.ExtractedContent{Title: "Page Title", InferredSource: "x.com"}

	record := Assemble(analysis, meta, content, "https://x.com/a")

	assert.Equal(t, "Page Title", record.Title)
	assert.Equal(t, "x.com", record.Source)
	require.NotNil(t, record.Author)
	assert.Equal(t, "Scraped Author", *record.Author)
	assert.Equal(t, "March 5, 2024", record.Date)
}

func TestAssemble_NothingKnown(t *testing.T) {
	record := Assemble(&models.Analysis{}, models.ScrapedMetadata{}, models.ExtractedContent{}, "https://x.com/a")

	assert.Nil(t, record.Author)
	assert.Equal(t, "Unknown", record.Date)
	assert.Nil(t, record.PrimaryImageURL)
	assert.NotNil(t, record.AdditionalImageURLs)
	assert.NotNil(t, record.Highlights)
	assert.NotNil(t, record.FactSections)
	assert.Nil(t, record.EngagementScore)
}

func TestAssemble_SectionIDs(t *testing.T) {
	record := Assemble(baseAnalysis(), models.ScrapedMetadata{}, models.ExtractedContent{}, "u")

	require.Len(t, record.FactSections, 3)
	assert.Equal(t, "rose-development-details", record.FactSections[0].ID)
	assert.Equal(t, "section-2", record.FactSections[1].ID)
	// Identical titles always produce identical identifiers
	assert.Equal(t, record.FactSections[0].ID, record.FactSections[2].ID)
	assert.Equal(t, "c3", record.FactSections[2].Content)
}

func TestAssemble_DoesNotMutateAnalysis(t *testing.T) {
	analysis := baseAnalysis()

	Assemble(analysis, models.ScrapedMetadata{}, models.ExtractedContent{}, "u")

	assert.Equal(t, "", analysis.FactSections[0].ID)
}

func TestAssemble_JSONShape(t *testing.T) {
	record := Assemble(&models.Analysis{Title: "T"}, models.ScrapedMetadata{}, models.ExtractedContent{}, "https://x.com/a")

	encoded, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Contains(t, decoded, "engagementScore")
	assert.Nil(t, decoded["engagementScore"])
	assert.Equal(t, []any{}, decoded["additionalImageUrls"])
	assert.NotContains(t, decoded, "author")
	assert.NotContains(t, decoded, "primaryImageUrl")
}

func TestSectionID(t *testing.T) {
	assert.Equal(t, "economy-markets", SectionID("Economy & Markets", 1))
	assert.Equal(t, "section-3", SectionID("   ", 3))
	assert.Equal(t, SectionID("Same Title", 1), SectionID("Same Title", 5))
}
