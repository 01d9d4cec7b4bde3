package agentloop

import "strings"

// completionSignals are matched case-insensitively as substrings of
// the full model response.
var completionSignals = []string{
	"task complete",
	"task completed",
	"done",
	"finished",
	"all changes applied",
	"successfully",
	"no more changes needed",
	"implementation complete",
}

// fatalErrorSignals likewise, checked before completion.
var fatalErrorSignals = []string{
	"cannot proceed",
	"unable to continue",
	"fatal error",
	"aborting",
}

func containsAny(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// isFatalError reports whether response matches a fatal-error signal.
func isFatalError(response string) bool {
	return containsAny(response, fatalErrorSignals)
}

// isTaskComplete reports whether response, having produced callCount
// parsed calls, signals task completion: either an explicit
// completion substring, or (as a secondary heuristic) zero calls and
// a response longer than 100 characters.
func isTaskComplete(response string, callCount int) bool {
	if containsAny(response, completionSignals) {
		return true
	}
	return callCount == 0 && len(response) > 100
}
