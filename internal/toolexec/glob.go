package toolexec

import (
	"fmt"
	"path/filepath"

	"github.com/agentcore/agentcore/internal/tooling"
)

// execGlob expands pattern and appends one matching path per line.
// Glob never fails the call itself; any iteration error becomes an
// "Error: ..." line in the output.
func execGlob(record *tooling.Record) error {
	pattern, _ := record.StringArg("pattern")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		record.AppendOutput(fmt.Sprintf("Error: %s\n", err))
		return nil
	}
	for _, m := range matches {
		record.AppendOutput(m + "\n")
	}
	return nil
}
