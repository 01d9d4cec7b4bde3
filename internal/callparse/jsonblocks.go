package callparse

import (
	"encoding/json"
	"regexp"
)

// fencedJSONRe matches a fenced code block, optionally tagged `json`,
// capturing the body and the whole match's span so later passes can
// skip spans this one already claimed.
var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n```")

// parseJSONBlocks locates every fenced block, parses the body as a
// JSON value, and tries object or array-of-object conversion.
func parseJSONBlocks(text string) ([]ParsedCall, []span) {
	var calls []ParsedCall
	var spans []span

	for _, m := range fencedJSONRe.FindAllStringSubmatchIndex(text, -1) {
		bodyStart, bodyEnd := m[2], m[3]
		body := text[bodyStart:bodyEnd]
		matchSpan := span{Start: m[0], End: m[1]}

		var value any
		if err := json.Unmarshal([]byte(body), &value); err != nil {
			continue
		}

		found := false
		if obj, ok := value.(map[string]any); ok {
			if call, ok := valueToCall(obj); ok {
				calls = append(calls, call)
				found = true
			}
		}
		if arr, ok := value.([]any); ok {
			for _, item := range arr {
				if obj, ok := item.(map[string]any); ok {
					if call, ok := valueToCall(obj); ok {
						calls = append(calls, call)
						found = true
					}
				}
			}
		}
		if found {
			spans = append(spans, matchSpan)
		}
	}

	return calls, spans
}
