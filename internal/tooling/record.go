// Package tooling holds the Tool Call Record and the Call Tracker: the
// in-memory lifecycle registry the Agent Loop drives and the Tool
// Executor mutates.
package tooling

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is a Tool Call Record's lifecycle state. Transitions are
// linear: Pending -> Running -> {Done, Failed, Killed}.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
	StatusKilled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// Record is a Tool Call Record: a tool invocation tracked from
// admission through a terminal state. The output buffer is the one
// interior-mutable part. The Executor appends to it from a tool
// goroutine while a cancellation checker may concurrently read
// Status, so it is guarded by its own mutex independent of the
// Tracker's single-writer discipline over everything else.
type Record struct {
	ID   string
	Tool string
	Args map[string]any

	mu       sync.Mutex
	status   Status
	output   strings.Builder
	errMsg   string
	started  *time.Time
	finished *time.Time
}

// NewRecord creates a Pending record for the given tool and argument
// payload. The ID is stable for the lifetime of the enclosing task.
func NewRecord(tool string, args map[string]any) *Record {
	return &Record{
		ID:     uuid.NewString(),
		Tool:   tool,
		Args:   args,
		status: StatusPending,
	}
}

// Start transitions Pending -> Running and stamps the start time.
func (r *Record) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusRunning
	now := time.Now()
	r.started = &now
}

// Complete transitions Running -> Done.
func (r *Record) Complete() {
	r.finish(StatusDone, "")
}

// Fail transitions to Failed and records the error message. It is
// called from Running, or straight from Pending when the Executor
// rejects a call before starting it.
func (r *Record) Fail(errMsg string) {
	r.finish(StatusFailed, errMsg)
}

// Kill transitions Running -> Killed, optionally with a reason
// recorded the same way a Fail error is (§3: "error string exists iff
// status is Failed or Killed-with-reason").
func (r *Record) Kill(reason string) {
	r.finish(StatusKilled, reason)
}

func (r *Record) finish(status Status, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.errMsg = errMsg
	now := time.Now()
	r.finished = &now
}

// AppendOutput appends text to the output buffer. Safe to call
// concurrently with Status/Output reads.
func (r *Record) AppendOutput(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output.WriteString(text)
}

// Status returns the current lifecycle status.
func (r *Record) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Output returns a snapshot of the accumulated output buffer.
func (r *Record) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// Error returns the recorded error/kill-reason string, if any.
func (r *Record) Error() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}

// Started reports whether the record has a start timestamp (it has
// left Pending).
func (r *Record) Started() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started == nil {
		return time.Time{}, false
	}
	return *r.started, true
}

// Finished reports whether the record has reached a terminal state,
// and if so when.
func (r *Record) Finished() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished == nil {
		return time.Time{}, false
	}
	return *r.finished, true
}

// IsTerminal reports whether the record is in a terminal status.
func (r *Record) IsTerminal() bool {
	switch r.Status() {
	case StatusDone, StatusFailed, StatusKilled:
		return true
	default:
		return false
	}
}

// StringArg returns args[key] as a string, or an error describing the
// missing/mistyped argument. Executor tool branches use this at their
// boundary to decode the dynamic payload (§9 "Dynamic argument
// payloads").
func (r *Record) StringArg(key string) (string, error) {
	v, ok := r.Args[key]
	if !ok {
		return "", fmt.Errorf("%s: missing %q argument", r.Tool, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: argument %q must be a string, got %T", r.Tool, key, v)
	}
	return s, nil
}

// IntArg returns args[key] as an int, accepting both JSON numbers
// (float64, after decoding) and native ints, or ok=false if absent.
func (r *Record) IntArg(key string) (int, bool, error) {
	v, ok := r.Args[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), true, nil
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	default:
		return 0, false, fmt.Errorf("%s: argument %q must be a number, got %T", r.Tool, key, v)
	}
}
