package formatting

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoObject indicates no JSON object could be recovered from the input.
var ErrNoObject = errors.New("no JSON object found")

var (
	jsonBlockRegex    = regexp.MustCompile(`(?s)` + "```" + `(?:json|JSON)?\s*\n?(.*?)\n?` + "```")
	trailingCommaRule = regexp.MustCompile(`,\s*([}\]])`)
)

// Extract recovers a JSON object from an arbitrary value. Maps are returned
// as-is; strings and raw bytes are searched for direct JSON, markdown code
// fences, and the first balanced object embedded in prose. Other values are
// round-tripped through encoding/json. Extract never fails: a nil map means
// no object could be recovered.
func Extract(v any) map[string]any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return t
	case string:
		return extractText(t, 1)
	case json.RawMessage:
		return extractText(string(t), 1)
	case []byte:
		return extractText(string(t), 1)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil
		}
		return m
	}
}

// Parse recovers a JSON object from content the way Extract does and
// decodes it into T.
func Parse[T any](content string) (T, error) {
	var result T

	m := extractText(content, 1)
	if m == nil {
		return result, ErrNoObject
	}

	data, err := json.Marshal(m)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	return result, nil
}

// extractText walks the candidate substrings of content in priority order.
// depth bounds how many times a JSON string holding JSON is unwrapped.
func extractText(content string, depth int) map[string]any {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	for _, candidate := range candidates(content) {
		if m, ok := decodeObject(candidate, depth); ok {
			return m
		}
	}

	return nil
}

func candidates(content string) []string {
	out := []string{content}

	for _, match := range jsonBlockRegex.FindAllStringSubmatch(content, -1) {
		if len(match) >= 2 {
			if block := strings.TrimSpace(match[1]); block != "" {
				out = append(out, block)
			}
		}
	}

	return append(out, balancedObjects(content)...)
}

func decodeObject(candidate string, depth int) (map[string]any, bool) {
	for _, attempt := range []string{candidate, trailingCommaRule.ReplaceAllString(candidate, "$1")} {
		var v any
		if err := json.Unmarshal([]byte(attempt), &v); err != nil {
			continue
		}

		switch t := v.(type) {
		case map[string]any:
			return t, true
		case string:
			if depth > 0 {
				if m := extractText(t, depth-1); m != nil {
					return m, true
				}
			}
		}
	}

	return nil, false
}

// balancedObjects returns every top-level {...} span in content, honoring
// string literals and escapes so braces inside strings do not count.
func balancedObjects(content string) []string {
	var (
		spans    []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)

	for i := 0; i < len(content); i++ {
		c := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				spans = append(spans, content[start:i+1])
				start = -1
			}
		}
	}

	return spans
}
