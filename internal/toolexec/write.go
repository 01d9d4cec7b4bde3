package toolexec

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentcore/agentcore/internal/tooling"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// maxDiffPreviewLines caps the diff preview appended to a write
// record's output so a very large rewrite doesn't flood the buffer.
const maxDiffPreviewLines = 200

// execWrite backs the existing file up with a .bak suffix (if it
// exists), overwrites it with content, and appends a backup/byte-count
// summary followed by a capped unified diff preview.
func execWrite(record *tooling.Record) error {
	path, _ := record.StringArg("path")
	content, _ := record.StringArg("content")

	var previous string
	hadPrevious := false
	if existing, err := os.ReadFile(path); err == nil {
		previous = string(existing)
		hadPrevious = true
		backup := path + ".bak"
		if err := copyFile(path, backup); err != nil {
			return fmt.Errorf("failed to backup %s: %w", path, err)
		}
		record.AppendOutput(fmt.Sprintf("Backed up to %s\n", backup))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	record.AppendOutput(fmt.Sprintf("Wrote %d bytes to %s\n", len(content), path))

	if hadPrevious && previous != content {
		record.AppendOutput(diffPreview(previous, content, path))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// diffPreview renders a unified diff between before and after,
// truncated at maxDiffPreviewLines.
func diffPreview(before, after, filename string) string {
	edits := myers.ComputeEdits(span.URIFromPath(filename), before, after)
	unified := gotextdiff.ToUnified("a/"+filename, "b/"+filename, before, edits)

	diffText := fmt.Sprint(unified)
	lines := strings.Split(diffText, "\n")
	truncated := false
	if len(lines) > maxDiffPreviewLines {
		lines = lines[:maxDiffPreviewLines]
		truncated = true
	}

	var b strings.Builder
	b.WriteString("--- diff ---\n")
	b.WriteString(strings.Join(lines, "\n"))
	if truncated {
		b.WriteString("\n... (diff truncated)\n")
	}
	return b.String()
}
