package parser

import (
	"encoding/json"
	"fmt"
	"regexp"

	"invoicegate/internal/domain"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	braceJSON  = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ExtractJSON locates the JSON object in raw model output: the first fenced code
// block when present, otherwise the widest {...} span. It returns
// domain.ErrNoJSONFound when neither exists.
func ExtractJSON(text string) (map[string]any, error) {
	candidate := ""
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if m := braceJSON.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}
	if candidate == "" {
		return nil, domain.ErrNoJSONFound
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("decoding extracted JSON: %w (raw: %s)", err, Truncate(candidate, 200))
	}
	return out, nil
}

// Truncate shortens s to maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
