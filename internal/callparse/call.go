// Package callparse implements the Tool-Call Parser: a format-liberal
// extractor that tries three surface syntaxes against raw model text
// and never fails: ill-formed text simply yields zero calls.
package callparse

// ParsedCall is a (tool name, argument payload) pair extracted from
// model text. It has no identity and no lifecycle; the Executor gives
// it both once it is admitted to a Tracker as a Record.
type ParsedCall struct {
	Name string
	Args map[string]any
}

// knownTools is the closed set the Executor recognizes. The parser
// itself tolerates unknown names in "tool" and "name" fields; only
// function-call syntax and the single-key object shape filter on this
// set. The Executor is the one that rejects unknown names.
var knownTools = map[string]bool{
	"read":  true,
	"write": true,
	"glob":  true,
	"grep":  true,
	"bash":  true,
}

func isKnownTool(name string) bool {
	return knownTools[name]
}

// span is a half-open byte range [Start, End) in the source text,
// used to make the parser's three passes span-exclusive: a later pass
// skips any match that overlaps a span an earlier pass already
// consumed, so one tool-call expressed in two overlapping forms (e.g.
// a `<tool>` tag quoted back inside a fenced block) is extracted once.
type span struct {
	Start, End int
}

func (s span) overlaps(other span) bool {
	return s.Start < other.End && other.Start < s.End
}

func overlapsAny(s span, consumed []span) bool {
	for _, c := range consumed {
		if s.overlaps(c) {
			return true
		}
	}
	return false
}
