// Package dispatch implements the Model Dispatcher: it drives a task
// to success or exhaustion across a configured, ordered list of
// models, rotating the starting point so concurrent tasks spread
// across models on average.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/agentcore/agentcore/internal/modelclient"
	"golang.org/x/sync/semaphore"
)

const attemptSleep = 2 * time.Second

// attemptDeadline is measured from the start of a single model's
// stream, independent of the client's own per-HTTP-attempt timeout.
const attemptDeadline = 300 * time.Second

// Outcome classifies how a single model attempt ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRateLimit
	OutcomeOther
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimit:
		return "rate-limit"
	default:
		return "other"
	}
}

// Attempt is a Dispatch Attempt: a (model identifier, outcome) pair.
type Attempt struct {
	Model   string
	Outcome Outcome
	Err     string
}

// Predicate judges whether a successfully streamed response is a
// usable artifact for the task at hand (task-dependent; supplied by
// the caller, e.g. "an index.html exists under the working
// directory"). A nil predicate always accepts.
type Predicate func(workDir string) bool

// Task is everything the Dispatcher needs to drive one attempt
// through the Streaming Model Client.
type Task struct {
	Credential string
	Messages   []modelclient.Message
	WorkDir    string
	Predicate  Predicate
}

// Result is the outcome of a Dispatch call.
type Result struct {
	Success   bool
	Text      string
	Usage     modelclient.Usage
	Model     string
	Attempts  []Attempt
	Exhausted bool
}

// Streamer is the subset of modelclient.Client the Dispatcher depends
// on; satisfied by *modelclient.Client, and by fakes in tests.
type Streamer interface {
	Stream(ctx context.Context, credential, model string, messages []modelclient.Message) (<-chan modelclient.Event, error)
}

// Dispatcher rotates a counter across an ordered model list and bounds
// concurrent in-flight attempts with a semaphore. The counter belongs
// to the Dispatcher instance: tasks sharing one Dispatcher spread
// across models, while separate Dispatchers each start from the first
// model and do not share a rotation.
type Dispatcher struct {
	Models []string
	Client Streamer

	counter atomic.Uint64
	sem     *semaphore.Weighted
}

// New returns a Dispatcher bounding concurrent attempts to
// maxConcurrent (0 means unbounded).
func New(models []string, client Streamer, maxConcurrent int64) *Dispatcher {
	d := &Dispatcher{Models: models, Client: client}
	if maxConcurrent > 0 {
		d.sem = semaphore.NewWeighted(maxConcurrent)
	}
	return d
}

// Dispatch visits the model list starting from a rotating position,
// returning on the first success. Every non-success attempt sleeps
// attemptSleep before trying the next model. Exhaustion after the
// full list is reported as a failed Result naming the attempts tried.
func (d *Dispatcher) Dispatch(ctx context.Context, task Task) (*Result, error) {
	if len(d.Models) == 0 {
		return nil, fmt.Errorf("dispatch: no models configured")
	}

	start := int(d.counter.Add(1)-1) % len(d.Models)
	var attempts []Attempt
	var lastErr string

	for i := 0; i < len(d.Models); i++ {
		model := d.Models[(start+i)%len(d.Models)]

		text, usage, err := d.attemptModel(ctx, task, model)
		if err == nil {
			if task.Predicate != nil && !task.Predicate(task.WorkDir) {
				err = fmt.Errorf("attempt produced no usable artifact")
			}
		}

		if err == nil {
			attempts = append(attempts, Attempt{Model: model, Outcome: OutcomeSuccess})
			return &Result{Success: true, Text: text, Usage: usage, Model: model, Attempts: attempts}, nil
		}

		outcome := classify(err)
		attempts = append(attempts, Attempt{Model: model, Outcome: outcome, Err: err.Error()})
		lastErr = err.Error()
		slog.Warn("dispatch: model attempt failed", "model", model, "outcome", outcome.String(), "error", err)

		if i < len(d.Models)-1 {
			select {
			case <-time.After(attemptSleep):
			case <-ctx.Done():
				return &Result{Success: false, Attempts: attempts, Exhausted: false}, ctx.Err()
			}
		}
	}

	return &Result{Success: false, Attempts: attempts, Exhausted: true},
		fmt.Errorf("dispatch: exhausted %d model(s), last error: %s", len(d.Models), lastErr)
}

// attemptModel runs one model attempt, bounded by attemptDeadline and
// the Dispatcher's concurrency semaphore, and accumulates the
// streamed tokens into a single response string.
func (d *Dispatcher) attemptModel(ctx context.Context, task Task, model string) (string, modelclient.Usage, error) {
	if d.sem != nil {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			return "", modelclient.Usage{}, err
		}
		defer d.sem.Release(1)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, attemptDeadline)
	defer cancel()

	ch, err := d.Client.Stream(attemptCtx, task.Credential, model, task.Messages)
	if err != nil {
		return "", modelclient.Usage{}, err
	}

	var text strings.Builder
	for ev := range ch {
		switch ev.Kind {
		case modelclient.EventToken:
			text.WriteString(ev.Token)
		case modelclient.EventError:
			return "", modelclient.Usage{}, fmt.Errorf("%s", ev.ErrText)
		case modelclient.EventDone:
			return text.String(), ev.Usage, nil
		}
	}
	return "", modelclient.Usage{}, fmt.Errorf("stream closed without a terminal event")
}

// classify heuristically tags an attempt error as rate-limit or
// other, matching on HTTP code or message substrings case-insensitively.
func classify(err error) Outcome {
	msg := strings.ToLower(err.Error())
	for _, sub := range []string{"429", "rate", "throttl", "limit"} {
		if strings.Contains(msg, sub) {
			return OutcomeRateLimit
		}
	}
	return OutcomeOther
}
