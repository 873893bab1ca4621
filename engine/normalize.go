package engine

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/triage"
)

// Model responses are only loosely typed: a field requested as a string
// may arrive as a nested object, and confidences may arrive as numbers,
// strings, or objects. The helpers here normalize each variant by probing
// a fixed priority list of keys, so the rest of the engine only ever sees
// plain strings and floats.

// priorityKeys are probed, in order, when a string field arrives as an
// object. Field-specific keys are appended by the caller.
var priorityKeys = []string{"value", "text", "name"}

// confidenceKeys are probed when a confidence arrives as an object.
var confidenceKeys = []string{"value", "score", "confidence"}

// normalizePrediction converts a decoded model response into a Prediction,
// applying the documented defaults for anything missing or unrecoverable.
func normalizePrediction(ticketID string, data map[string]any) *triage.Prediction {
	category := stringField(firstPresent(data, "category"), DefaultCategory, "category")
	routing := stringField(firstPresent(data, "routing", "primary_team"), DefaultRouting, "primary_team")
	resolution := stringField(firstPresent(data, "resolution", "suggested_resolution"), DefaultResolution, "suggested_resolution")

	return &triage.Prediction{
		TicketID:            ticketID,
		PredictedCategory:   category,
		PredictedRouting:    routing,
		PredictedResolution: resolution,
		ConfidenceScores: map[string]float64{
			"category":   floatField(firstPresent(data, "category_confidence", "confidence")),
			"routing":    floatField(firstPresent(data, "routing_confidence")),
			"resolution": floatField(firstPresent(data, "resolution_confidence")),
		},
		Reasoning: stringField(firstPresent(data, "reasoning"), "", "reasoning"),
	}
}

// firstPresent returns the first of the named keys present in data.
func firstPresent(data map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := data[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// stringField resolves a possibly-nested string value. Objects are probed
// with the priority keys plus the field-specific key; anything else is
// stringified. Nil yields the default.
func stringField(value any, defaultValue string, fieldKey string) string {
	switch v := value.(type) {
	case nil:
		return defaultValue
	case string:
		if v == "" {
			return defaultValue
		}
		return v
	case map[string]any:
		keys := append(append([]string{}, priorityKeys...), fieldKey)
		for _, key := range keys {
			if inner, ok := v[key]; ok && inner != nil {
				if s, ok := inner.(string); ok {
					return s
				}
				return fmt.Sprint(inner)
			}
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// floatField resolves a possibly-nested confidence value, defaulting to
// 0.5 when unrecoverable.
func floatField(value any) float64 {
	const defaultConfidence = 0.5
	switch v := value.(type) {
	case nil:
		return defaultConfidence
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return defaultConfidence
	case map[string]any:
		for _, key := range confidenceKeys {
			if inner, ok := v[key]; ok {
				if f, ok := toFloat(inner); ok {
					return f
				}
			}
		}
		return defaultConfidence
	default:
		if f, ok := toFloat(v); ok {
			return f
		}
		return defaultConfidence
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
