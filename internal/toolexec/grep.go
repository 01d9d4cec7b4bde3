package toolexec

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	"github.com/agentcore/agentcore/internal/tooling"
)

// execGrep compiles pattern as a regular expression and appends
// "<path>:<line>:<text>" for every matching line of the file at path.
func execGrep(record *tooling.Record) error {
	pattern, _ := record.StringArg("pattern")
	path, _ := record.StringArg("path")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if re.MatchString(line) {
			record.AppendOutput(fmt.Sprintf("%s:%d:%s\n", path, lineNo, line))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
