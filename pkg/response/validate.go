package response

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// MaxHighlights caps the highlights kept from the model
const MaxHighlights = 4

// Engagement dimension keys, in rubric order
var engagementDimensions = []string{
	"scannability",
	"personalization",
	"interactivity",
	"curation",
	"emotionalEngagement",
}

// Numeric members of the engagement score
var scoreFields = append(engagementDimensions[:len(engagementDimensions):len(engagementDimensions)], "total")

// Validate converts the recovered object into a typed Analysis. It never fails: malformed
// optional parts are dropped or coerced, and each such recovery is logged.
func Validate(obj map[string]any, log *logrus.Entry) *models.Analysis {
	log = log.WithField("component", "validator")

	analysis := &models.Analysis{
		Title:        stringField(obj, "title"),
		Source:       stringField(obj, "source"),
		Date:         stringField(obj, "date"),
		Summary:      stringField(obj, "summary"),
		Highlights:   highlights(obj, log),
		FactSections: factSections(obj, log),
		Quotes:       quotes(obj, log),
	}
	if author := stringField(obj, "author"); author != "" {
		analysis.Author = &author
	}

	score, err := engagementScore(obj["engagementScore"])
	if err != nil {
		log.WithFields(logrus.Fields{
			"error_category": utils.CategorizeError(err),
		}).Warnf("Dropping engagement score: %v", err)
	}
	analysis.EngagementScore = score
	if score != nil {
		if sum := score.Scannability + score.Personalization + score.Interactivity + score.Curation + score.EmotionalEngagement; sum != score.Total {
			log.WithFields(logrus.Fields{"sum": sum, "total": score.Total}).Debug("Engagement total differs from dimension sum")
		}
	}

	return analysis
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// arrayField returns obj[key] as a slice; anything else becomes empty.
func arrayField(obj map[string]any, key string, log *logrus.Entry) []any {
	raw, present := obj[key]
	arr, ok := raw.([]any)
	if !ok {
		if present && raw != nil {
			log.WithField("field", key).Warnf("Expected array, got %T; using empty list", raw)
		}
		return []any{}
	}
	return arr
}

func highlights(obj map[string]any, log *logrus.Entry) []string {
	result := make([]string, 0, MaxHighlights)
	for _, item := range arrayField(obj, "highlights", log) {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		if len(result) == MaxHighlights {
			log.Debug("Truncating highlights to maximum")
			break
		}
		result = append(result, strings.TrimSpace(s))
	}
	return result
}

func factSections(obj map[string]any, log *logrus.Entry) []models.FactSection {
	items := arrayField(obj, "factSections", log)
	result := make([]models.FactSection, 0, len(items))
	for i, item := range items {
		section, ok := item.(map[string]any)
		if !ok {
			log.WithField("index", i).Warnf("Dropping fact section of type %T", item)
			continue
		}
		result = append(result, models.FactSection{
			Title:   stringField(section, "title"),
			Content: stringField(section, "content"),
		})
	}
	return result
}

func quotes(obj map[string]any, log *logrus.Entry) []models.Quote {
	items := arrayField(obj, "quotes", log)
	result := make([]models.Quote, 0, len(items))
	for i, item := range items {
		switch q := item.(type) {
		case string:
			if text := strings.TrimSpace(q); text != "" {
				result = append(result, models.Quote{Text: text})
			}
		case map[string]any:
			text := stringField(q, "text")
			if text == "" {
				log.WithField("index", i).Debug("Dropping quote without text")
				continue
			}
			quote := models.Quote{Text: text}
			if speaker := stringField(q, "speaker"); speaker != "" {
				quote.Speaker = &speaker
			}
			if context := stringField(q, "context"); context != "" {
				quote.Context = &context
			}
			result = append(result, quote)
		default:
			log.WithField("index", i).Warnf("Dropping quote of type %T", item)
		}
	}
	return result
}

// engagementScore accepts the substructure only when every dimension and the total are numbers
// and justification is an object. A missing score is (nil, nil).
func engagementScore(raw any) (*models.EngagementScore, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &utils.ValidationError{Field: "engagementScore", Reason: fmt.Sprintf("expected object, got %T", raw)}
	}

	values := make(map[string]int, len(scoreFields))
	for _, key := range scoreFields {
		n, ok := obj[key].(float64)
		if !ok {
			return nil, &utils.ValidationError{Field: "engagementScore." + key, Reason: "missing or not a number"}
		}
		values[key] = int(math.Round(n))
	}

	rawJustification, ok := obj["justification"].(map[string]any)
	if !ok {
		return nil, &utils.ValidationError{Field: "engagementScore.justification", Reason: "missing or not an object"}
	}
	justification := make(map[string]string, len(rawJustification))
	for k, v := range rawJustification {
		if s, ok := v.(string); ok {
			justification[k] = s
		}
	}

	return &models.EngagementScore{
		Scannability:        values["scannability"],
		Personalization:     values["personalization"],
		Interactivity:       values["interactivity"],
		Curation:            values["curation"],
		EmotionalEngagement: values["emotionalEngagement"],
		Total:               values["total"],
		Justification:       justification,
	}, nil
}
