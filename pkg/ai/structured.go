package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips the Markdown code fences models like to wrap JSON in.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeJSON cleans raw and unmarshals it into a T.
func DecodeJSON[T any](raw string) (T, error) {
	var out T
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return out, fmt.Errorf("empty structured response")
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, fmt.Errorf("failed to decode structured response: %w", err)
	}
	return out, nil
}
