// Package toolexec implements the Tool Executor: it drives a Tool
// Call Record from Pending to a terminal state by running one of a
// closed set of tool bodies (read, write, glob, grep, bash) against
// its argument payload.
package toolexec

import (
	"context"
	"fmt"

	"github.com/agentcore/agentcore/internal/tooling"
)

// Executor recognizes the closed tool set and owns the kill-flag
// registry used by the bash tool's cancellation path.
type Executor struct {
	kills *killRegistry

	// DefaultBashTimeoutMs is used by the bash tool whenever a call
	// omits its own "timeout" argument. Set from RunConfig's
	// timeout_per_tool_ms by the caller; falls back to the §6 default
	// when left zero.
	DefaultBashTimeoutMs int
}

// New returns a ready Executor using the §6 default bash timeout
// (60000ms). Use NewWithTimeout to override it from a RunConfig.
func New() *Executor {
	return NewWithTimeout(defaultBashTimeoutMs)
}

// NewWithTimeout returns a ready Executor whose bash tool falls back
// to defaultTimeoutMs when a call doesn't specify its own timeout.
func NewWithTimeout(defaultTimeoutMs int) *Executor {
	if defaultTimeoutMs <= 0 {
		defaultTimeoutMs = defaultBashTimeoutMs
	}
	return &Executor{kills: newKillRegistry(), DefaultBashTimeoutMs: defaultTimeoutMs}
}

// Execute drives record from Pending through Running to a terminal
// state. Unknown tools and missing required arguments fail the
// record without ever entering Running, per the validate-before-start
// contract: the Record's status only flips to Running once the
// argument shape for its tool has been confirmed.
func (e *Executor) Execute(ctx context.Context, record *tooling.Record) error {
	if err := validateArgs(record); err != nil {
		record.Fail(err.Error())
		return err
	}

	flag := e.kills.register(record.ID)
	defer e.kills.unregister(record.ID)

	record.Start()

	var err error
	switch record.Tool {
	case "read":
		err = execRead(record)
	case "write":
		err = execWrite(record)
	case "glob":
		err = execGlob(record)
	case "grep":
		err = execGrep(record)
	case "bash":
		err = execBash(ctx, record, flag, e.DefaultBashTimeoutMs)
	default:
		err = fmt.Errorf("unknown tool: %s", record.Tool)
	}

	if err != nil {
		record.Fail(err.Error())
		return err
	}
	record.Complete()
	return nil
}

// Kill sets the cancellation flag for a running record, observed by
// the bash tool on its next poll. A no-op for unknown or already
// terminal ids.
func (e *Executor) Kill(id string) {
	e.kills.Kill(id)
}

// validateArgs checks required argument presence per tool before the
// record transitions to Running, so a malformed call never appears to
// have started.
func validateArgs(record *tooling.Record) error {
	switch record.Tool {
	case "read":
		_, err := record.StringArg("path")
		return err
	case "write":
		if _, err := record.StringArg("path"); err != nil {
			return err
		}
		_, err := record.StringArg("content")
		return err
	case "glob":
		_, err := record.StringArg("pattern")
		return err
	case "grep":
		if _, err := record.StringArg("pattern"); err != nil {
			return err
		}
		_, err := record.StringArg("path")
		return err
	case "bash":
		_, err := record.StringArg("command")
		return err
	default:
		return fmt.Errorf("unknown tool: %s", record.Tool)
	}
}
