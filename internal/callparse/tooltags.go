package callparse

import (
	"encoding/json"
	"regexp"
)

var toolTagRe = regexp.MustCompile("(?s)<tool>(.*?)</tool>")

// parseToolTags locates every <tool>...</tool> span, skipping any
// whose span overlaps a span an earlier pass already consumed, and
// parses the interior as a JSON object.
func parseToolTags(text string, consumed []span) ([]ParsedCall, []span) {
	var calls []ParsedCall
	var spans []span

	for _, m := range toolTagRe.FindAllStringSubmatchIndex(text, -1) {
		matchSpan := span{Start: m[0], End: m[1]}
		if overlapsAny(matchSpan, consumed) {
			continue
		}

		body := text[m[2]:m[3]]
		var value any
		if err := json.Unmarshal([]byte(body), &value); err != nil {
			continue
		}
		obj, ok := value.(map[string]any)
		if !ok {
			continue
		}
		call, ok := valueToCall(obj)
		if !ok {
			continue
		}
		calls = append(calls, call)
		spans = append(spans, matchSpan)
	}

	return calls, spans
}
