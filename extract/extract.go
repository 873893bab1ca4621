// Package extract implements best-effort JSON extraction from raw model
// text. Models asked for JSON frequently wrap it in fenced code blocks or
// surround it with prose; the fallback ladder here is: fenced block, then
// brace scan, then the raw text. Extraction never fails hard: callers
// receive an empty result and treat it as "no usable prediction".
//
// All functions are pure: identical inputs yield identical outputs.
package extract

import (
	"encoding/json"
	"strings"
)

// JSON extracts the JSON payload from raw model text. The second return
// value is false when nothing parseable was found.
func JSON(text string) ([]byte, bool) {
	clean := strings.TrimSpace(text)

	if strings.Contains(clean, "```") {
		if block, ok := fencedBlock(clean); ok {
			clean = block
		}
	}

	if !strings.HasPrefix(clean, "{") && !strings.HasPrefix(clean, "[") {
		clean = braceScan(clean)
	}

	clean = strings.TrimSpace(clean)
	if clean == "" || !json.Valid([]byte(clean)) {
		return nil, false
	}
	return []byte(clean), true
}

// Object extracts and unmarshals a JSON object from raw model text. On any
// failure it returns an empty map, never an error.
func Object(text string) map[string]any {
	data, ok := JSON(text)
	if !ok {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil || result == nil {
		return map[string]any{}
	}
	return result
}

// fencedBlock returns the first fenced code block whose content, after an
// optional language tag, begins with '{' or '['.
func fencedBlock(text string) (string, bool) {
	parts := strings.Split(text, "```")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "json")
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "{") || strings.HasPrefix(part, "[") {
			return part, true
		}
	}
	return "", false
}

// braceScan slices between the first '{' and the last '}' (or the bracket
// equivalents when no brace is present).
func braceScan(text string) string {
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
		return text
	}
	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			return text[start : end+1]
		}
	}
	return text
}
