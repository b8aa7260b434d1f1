package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedCompletion means the completion held no usable JSON.
var ErrMalformedCompletion = errors.New("completion is not valid JSON")

var (
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
	arraySpan  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractJSONSpan returns the text from the first '{' (or '[') to the last
// matching closer. It is a greedy heuristic, not a parser: braces inside
// string literals or trailing prose with braces will confuse it.
func ExtractJSONSpan(text string) (string, bool) {
	spans := jsonSpans(text)
	if len(spans) == 0 {
		return "", false
	}
	return spans[0], true
}

// jsonSpans returns the greedy object and array spans of text, the one that
// opens first leading.
func jsonSpans(text string) []string {
	obj := objectSpan.FindStringIndex(text)
	arr := arraySpan.FindStringIndex(text)

	switch {
	case obj == nil && arr == nil:
		return nil
	case obj == nil:
		return []string{text[arr[0]:arr[1]]}
	case arr == nil:
		return []string{text[obj[0]:obj[1]]}
	case arr[0] < obj[0]:
		return []string{text[arr[0]:arr[1]], text[obj[0]:obj[1]]}
	default:
		return []string{text[obj[0]:obj[1]], text[arr[0]:arr[1]]}
	}
}

// completionJSON returns the JSON payload of a completion: the whole text
// when it parses, else the first extracted span that parses.
func completionJSON(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}

	for _, span := range jsonSpans(trimmed) {
		if json.Valid([]byte(span)) {
			return []byte(span), nil
		}
	}
	return nil, ErrMalformedCompletion
}

// proseText is the text shown for a completion that is not a task payload.
// A completion that is only a JSON string is unquoted.
func proseText(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return trimmed
}
