package callparse

// Parse extracts every tool call expressed in text across three
// surface syntaxes, tried in order and concatenated: fenced JSON
// blocks, <tool>...</tool> tags, and function-call syntax. A pass
// never re-extracts a call from a byte span an earlier pass already
// claimed, so a call quoted in two overlapping forms (a <tool> tag
// nested inside a fenced block being echoed back, for instance)
// surfaces once rather than twice. The parser never fails: text with
// no recognizable call simply yields an empty slice.
func Parse(text string) []ParsedCall {
	var calls []ParsedCall
	var consumed []span

	jsonCalls, jsonSpans := parseJSONBlocks(text)
	calls = append(calls, jsonCalls...)
	consumed = append(consumed, jsonSpans...)

	tagCalls, tagSpans := parseToolTags(text, consumed)
	calls = append(calls, tagCalls...)
	consumed = append(consumed, tagSpans...)

	fnCalls, _ := parseFunctionCalls(text, consumed)
	calls = append(calls, fnCalls...)

	return calls
}
