package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// candidates lists possible JSON payloads of a reply in precedence order:
// a ```json block, any fenced block, the outermost {...} span, the whole text.
func candidates(text string) []string {
	out := make([]string, 0, 4)

	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		out = append(out, m[1])
	}
	if m := fencedAny.FindStringSubmatch(text); m != nil {
		out = append(out, m[1])
	}
	if m := objectSpan.FindString(text); m != "" {
		out = append(out, m)
	}

	return append(out, text)
}

// ExtractJSON returns the first candidate of text that is valid JSON.
func ExtractJSON(text string) (json.RawMessage, bool) {
	for _, candidate := range candidates(text) {
		candidate = strings.TrimSpace(candidate)
		if candidate != "" && json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), true
		}
	}

	return nil, false
}

// ParseJSON decodes the first candidate of text that unmarshals into T.
func ParseJSON[T any](text string) (T, error) {
	for _, candidate := range candidates(text) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		var out T
		if err := json.Unmarshal([]byte(candidate), &out); err == nil {
			return out, nil
		}
	}

	var zero T
	return zero, NewJSONParseError(text)
}
