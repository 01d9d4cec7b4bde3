package toolexec

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/agentcore/agentcore/internal/tooling"
)

// execRead reads the named file into the output buffer, prefixing
// each line with a right-aligned 1-based line number and a vertical
// bar separator.
func execRead(record *tooling.Record) error {
	path, _ := record.StringArg("path")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%s is not valid UTF-8", path)
	}

	record.AppendOutput(renderNumberedLines(string(data)))
	return nil
}

func renderNumberedLines(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%4d│ %s\n", i+1, line)
	}
	return b.String()
}
