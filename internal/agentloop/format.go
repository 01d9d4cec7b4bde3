package agentloop

import (
	"fmt"
	"strings"

	"github.com/agentcore/agentcore/internal/tooling"
)

// formatToolResults builds the feedback message for a set of executed
// tracker indices, in execution order: one "## <tool> result:" block
// per index.
func formatToolResults(tracker *tooling.Tracker, indices []int) string {
	var b strings.Builder
	for _, idx := range indices {
		record := tracker.Get(idx)
		if record == nil {
			continue
		}
		fmt.Fprintf(&b, "\n## %s result:\n", record.Tool)

		switch record.Status() {
		case tooling.StatusDone:
			out := record.Output()
			if out == "" {
				b.WriteString("(no output)\n")
			} else {
				b.WriteString(out)
			}
		case tooling.StatusFailed:
			fmt.Fprintf(&b, "ERROR: %s\n", record.Error())
		case tooling.StatusKilled:
			b.WriteString("(killed by user)\n")
		default:
			b.WriteString("(unexpected status)\n")
		}
	}
	return b.String()
}
