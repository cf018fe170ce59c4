package models

// ScrapedMetadata holds page signals read from meta tags and the content region.
// Pointer fields are nil when the signal is absent.
type ScrapedMetadata struct {
	PrimaryImageURL     *string  `json:"primaryImageUrl,omitempty"`
	AdditionalImageURLs []string `json:"additionalImageUrls"` // <=10, deduplicated, http/https only
	PublishedDate       *string  `json:"publishedDate,omitempty"`
	Author              *string  `json:"author,omitempty"`
}

// ExtractedContent is the readable article text plus the hints inferred alongside it.
type ExtractedContent struct {
	Text           string `json:"text"`
	Title          string `json:"title"`
	InferredSource string `json:"inferredSource"` // Site name, or hostname when unknown
	Byline         string `json:"byline,omitempty"`
}

// CompletionRequest is the rendered prompt and the fixed sampling parameters sent to the completion service.
type CompletionRequest struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// EngagementScore is the five-dimension rubric. It is either complete and well-typed or absent.
type EngagementScore struct {
	Scannability        int               `json:"scannability"`
	Personalization     int               `json:"personalization"`
	Interactivity       int               `json:"interactivity"`
	Curation            int               `json:"curation"`
	EmotionalEngagement int               `json:"emotionalEngagement"`
	Total               int               `json:"total"` // Sum of the five dimensions, 5-25
	Justification       map[string]string `json:"justification"`
}

// FactSection is one sub-topic of the article. ID is derived from Title.
type FactSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Quote is a direct quotation lifted from the article.
type Quote struct {
	Text    string  `json:"text"`
	Speaker *string `json:"speaker,omitempty"`
	Context *string `json:"context,omitempty"`
}

// Analysis is the validated, typed view of the completion service's output.
type Analysis struct {
	Title           string
	Source          string
	Author          *string
	Date            string
	Summary         string
	Highlights      []string
	FactSections    []FactSection
	Quotes          []Quote
	EngagementScore *EngagementScore
}

// StoryRecord is the final response for one article URL.
type StoryRecord struct {
	Title               string           `json:"title"`
	Source              string           `json:"source"`
	Author              *string          `json:"author,omitempty"`
	Date                string           `json:"date"`
	Summary             string           `json:"summary"`
	Highlights          []string         `json:"highlights"`
	FactSections        []FactSection    `json:"factSections"`
	Quotes              []Quote          `json:"quotes,omitempty"`
	EngagementScore     *EngagementScore `json:"engagementScore"`
	PrimaryImageURL     *string          `json:"primaryImageUrl,omitempty"`
	AdditionalImageURLs []string         `json:"additionalImageUrls"`
	OriginalURL         string           `json:"originalUrl"`
}

// Health is the side-effect-free service status.
type Health struct {
	Status               string `json:"status"`
	CompletionConfigured bool   `json:"completionConfigured"`
	Provider             string `json:"provider"`
	Model                string `json:"model"`
}
