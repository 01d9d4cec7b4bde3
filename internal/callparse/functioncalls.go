package callparse

import "regexp"

var (
	functionCallRe = regexp.MustCompile(`(\w+)\(([^)]*)\)`)
	kwArgRe        = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)
)

// parseFunctionCalls locates every <ident>(<args>) span where <ident>
// is a known tool name, skipping spans earlier passes already
// consumed, and extracts key="value" pairs from the argument list. A
// call with zero extracted pairs is dropped.
func parseFunctionCalls(text string, consumed []span) ([]ParsedCall, []span) {
	var calls []ParsedCall
	var spans []span

	for _, m := range functionCallRe.FindAllStringSubmatchIndex(text, -1) {
		matchSpan := span{Start: m[0], End: m[1]}
		if overlapsAny(matchSpan, consumed) {
			continue
		}

		name := text[m[2]:m[3]]
		if !isKnownTool(name) {
			continue
		}
		argsStr := text[m[4]:m[5]]

		args := map[string]any{}
		for _, am := range kwArgRe.FindAllStringSubmatch(argsStr, -1) {
			args[am[1]] = am[2]
		}
		if len(args) == 0 {
			continue
		}

		calls = append(calls, ParsedCall{Name: name, Args: args})
		spans = append(spans, matchSpan)
	}

	return calls, spans
}
