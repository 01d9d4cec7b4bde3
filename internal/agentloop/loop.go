// Package agentloop drives one task to completion: build messages,
// stream a response, check for a fatal signal, parse tool calls,
// execute them serially, format the results as feedback, and repeat
// until completion, exhaustion, or the iteration cap.
package agentloop

import (
	"context"
	"fmt"

	"github.com/agentcore/agentcore/internal/callparse"
	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/tooling"
	"github.com/agentcore/agentcore/internal/toolexec"
)

// Outcome names why a Run returned.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeFatalError        Outcome = "fatal_error"
	OutcomeMaxIterations     Outcome = "max_iterations"
	OutcomeDispatchExhausted Outcome = "dispatch_exhausted"
	OutcomeLoopDetected      Outcome = "loop_detected"
)

// Responder obtains one full model response for the running
// conversation. Implemented directly by a single-model client
// wrapper, or by a Dispatcher wrapper that falls back across models.
type Responder interface {
	Respond(ctx context.Context, messages []modelclient.Message) (text string, err error)
}

// LoopWatcher is the stuck-loop arbiter's interface (see
// internal/loopwatch): given the most recent tool names invoked, it
// judges whether the loop looks unproductive.
type LoopWatcher interface {
	Check(ctx context.Context, recentTools []string) (stuck bool, reason string, err error)
}

// Result is the outcome of one Run.
type Result struct {
	Iterations        int
	ToolCallsExecuted int
	FinalResponse     string
	Success           bool
	Outcome           Outcome
	Error             string
}

// Loop ties the Parser, Executor, and Tracker together around a
// Responder for one task.
type Loop struct {
	Responder Responder
	Executor  *toolexec.Executor
	Tracker   *tooling.Tracker
	Watcher   LoopWatcher
}

// New returns a Loop with a fresh Tracker.
func New(responder Responder, executor *toolexec.Executor) *Loop {
	return &Loop{
		Responder: responder,
		Executor:  executor,
		Tracker:   tooling.NewTracker(),
	}
}

// Run drives the task to one of five terminal outcomes: completion
// signal, fatal-error signal, iteration cap, dispatcher exhaustion
// (surfaced by the Responder as an error), or (if a Watcher is
// configured) a stuck-loop verdict.
func (l *Loop) Run(ctx context.Context, prompt string, cfg RunConfig) (*Result, error) {
	cfg = cfg.withDefaults()
	if l.Executor != nil {
		l.Executor.DefaultBashTimeoutMs = cfg.TimeoutPerToolMs
	}

	messages := []modelclient.Message{
		{Role: modelclient.RoleSystem, Content: systemPrompt(cfg.WorkDir)},
		{Role: modelclient.RoleUser, Content: prompt},
	}

	result := &Result{}
	var recentTools []string

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		result.Iterations = iter

		response, err := l.Responder.Respond(ctx, messages)
		if err != nil {
			result.Outcome = OutcomeDispatchExhausted
			result.Error = err.Error()
			return result, nil
		}
		messages = append(messages, modelclient.Message{Role: modelclient.RoleAssistant, Content: response})
		result.FinalResponse = response

		if isFatalError(response) {
			result.Outcome = OutcomeFatalError
			result.Success = false
			result.Error = response
			return result, nil
		}

		calls := callparse.Parse(response)
		if len(calls) > cfg.MaxToolCallsPerIteration {
			calls = calls[:cfg.MaxToolCallsPerIteration]
		}

		if isTaskComplete(response, len(calls)) {
			result.Outcome = OutcomeSuccess
			result.Success = true
			return result, nil
		}

		indices := make([]int, 0, len(calls))
		callsBefore := len(recentTools)
		for _, call := range calls {
			record := tooling.NewRecord(call.Name, call.Args)
			idx := l.Tracker.Add(record)
			_ = l.Executor.Execute(ctx, record)
			indices = append(indices, idx)
			result.ToolCallsExecuted++
			recentTools = append(recentTools, call.Name)
		}

		if stuck, reason, err := l.checkLoopWatch(ctx, cfg, recentTools, callsBefore); err != nil {
			return result, fmt.Errorf("loopwatch: %w", err)
		} else if stuck {
			result.Outcome = OutcomeLoopDetected
			result.Success = false
			result.Error = reason
			return result, nil
		}

		feedback := formatToolResults(l.Tracker, indices)
		messages = append(messages, modelclient.Message{Role: modelclient.RoleUser, Content: feedback})
	}

	result.Outcome = OutcomeMaxIterations
	result.Success = false
	return result, nil
}

// checkLoopWatch runs the arbiter every AILoopCheckInterval tool
// calls, a no-op if disabled or no Watcher is configured. callsBefore
// is the tool-call count before the current iteration, so a multiple
// of the interval crossed inside one iteration still triggers a check.
func (l *Loop) checkLoopWatch(ctx context.Context, cfg RunConfig, recentTools []string, callsBefore int) (bool, string, error) {
	if l.Watcher == nil || cfg.AILoopCheckInterval <= 0 {
		return false, "", nil
	}
	if len(recentTools)/cfg.AILoopCheckInterval <= callsBefore/cfg.AILoopCheckInterval {
		return false, "", nil
	}
	window := recentTools
	if len(window) > cfg.AILoopCheckInterval {
		window = window[len(window)-cfg.AILoopCheckInterval:]
	}
	return l.Watcher.Check(ctx, window)
}
