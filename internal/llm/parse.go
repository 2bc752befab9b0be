package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\n?(.*?)```")

// candidates lists the substrings of text that may hold the JSON payload, in
// the order they should be tried.
func candidates(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	out := []string{text}
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	return out
}

func isContainer(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// Extract returns the first JSON object or array found in text: the whole
// text, a fenced code block, the outermost braces, then the outermost
// brackets.
func Extract(text string) (json.RawMessage, bool) {
	for _, c := range candidates(text) {
		if isContainer(c) && json.Valid([]byte(c)) {
			return json.RawMessage(c), true
		}
	}
	return nil, false
}

// ParseObject returns the first JSON object found in text.
func ParseObject(text string) (map[string]any, bool) {
	for _, c := range candidates(text) {
		if !strings.HasPrefix(strings.TrimSpace(c), "{") {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(c), &obj); err == nil && obj != nil {
			return obj, true
		}
	}
	return nil, false
}

// ParseArray returns the first JSON array found in text. An object whose only
// array-valued field holds the items (e.g. {"companies": [...]}) is accepted
// too.
func ParseArray(text string) ([]any, bool) {
	for _, c := range candidates(text) {
		var arr []any
		if err := json.Unmarshal([]byte(c), &arr); err == nil && arr != nil {
			return arr, true
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(c), &obj); err == nil {
			if items, ok := soleArray(obj); ok {
				return items, true
			}
		}
	}
	return nil, false
}

func soleArray(obj map[string]any) ([]any, bool) {
	var found []any
	n := 0
	for _, v := range obj {
		if arr, ok := v.([]any); ok {
			found = arr
			n++
		}
	}
	return found, n == 1
}
