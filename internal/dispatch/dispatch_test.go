package dispatch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/stretchr/testify/require"
)

// fakeStreamer replays a scripted event sequence per model, recording
// every model it was asked to stream.
type fakeStreamer struct {
	mu      sync.Mutex
	calls   []string
	scripts map[string][]modelclient.Event
}

func (f *fakeStreamer) Stream(ctx context.Context, credential, model string, messages []modelclient.Message) (<-chan modelclient.Event, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.mu.Unlock()

	events := f.scripts[model]
	ch := make(chan modelclient.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func TestDispatchFirstModelSuccess(t *testing.T) {
	fs := &fakeStreamer{scripts: map[string][]modelclient.Event{
		"model-a": {{Kind: modelclient.EventToken, Token: "hi"}, {Kind: modelclient.EventDone}},
	}}
	d := New([]string{"model-a", "model-b"}, fs, 0)

	result, err := d.Dispatch(context.Background(), Task{Credential: "k", Messages: nil})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "model-a", result.Model)
	require.Equal(t, "hi", result.Text)
	require.Len(t, result.Attempts, 1)
}

func TestDispatchRateLimitFallback(t *testing.T) {
	fs := &fakeStreamer{scripts: map[string][]modelclient.Event{
		"model-a": {{Kind: modelclient.EventError, ErrText: "API error 429: rate limited"}},
		"model-b": {{Kind: modelclient.EventToken, Token: "ok"}, {Kind: modelclient.EventDone}},
	}}
	d := New([]string{"model-a", "model-b"}, fs, 0)

	start := time.Now()
	result, err := d.Dispatch(context.Background(), Task{Credential: "k"})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "model-b", result.Model)
	require.Len(t, result.Attempts, 2)
	require.Equal(t, OutcomeRateLimit, result.Attempts[0].Outcome)
	require.Equal(t, OutcomeSuccess, result.Attempts[1].Outcome)
	require.GreaterOrEqual(t, elapsed, attemptSleep)
}

func TestDispatchExhaustion(t *testing.T) {
	fs := &fakeStreamer{scripts: map[string][]modelclient.Event{
		"model-a": {{Kind: modelclient.EventError, ErrText: "boom"}},
		"model-b": {{Kind: modelclient.EventError, ErrText: "boom again"}},
	}}
	d := New([]string{"model-a", "model-b"}, fs, 0)

	result, err := d.Dispatch(context.Background(), Task{Credential: "k"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "exhausted 2")
	require.False(t, result.Success)
	require.True(t, result.Exhausted)
	require.Len(t, result.Attempts, 2)
}

func TestDispatchRotationSpreadsStartIndex(t *testing.T) {
	fs := &fakeStreamer{scripts: map[string][]modelclient.Event{
		"model-a": {{Kind: modelclient.EventDone}},
		"model-b": {{Kind: modelclient.EventDone}},
		"model-c": {{Kind: modelclient.EventDone}},
	}}
	d := New([]string{"model-a", "model-b", "model-c"}, fs, 0)

	var firstCalls []string
	for i := 0; i < 3; i++ {
		fs.calls = nil
		_, err := d.Dispatch(context.Background(), Task{Credential: "k"})
		require.NoError(t, err)
		firstCalls = append(firstCalls, fs.calls[0])
	}

	require.Equal(t, []string{"model-a", "model-b", "model-c"}, firstCalls)
}

func TestDispatchNoModelsConfigured(t *testing.T) {
	d := New(nil, &fakeStreamer{}, 0)
	_, err := d.Dispatch(context.Background(), Task{Credential: "k"})
	require.Error(t, err)
}

func TestDispatchPredicateRejectsArtifact(t *testing.T) {
	fs := &fakeStreamer{scripts: map[string][]modelclient.Event{
		"model-a": {{Kind: modelclient.EventDone}},
		"model-b": {{Kind: modelclient.EventDone}},
	}}
	d := New([]string{"model-a", "model-b"}, fs, 0)

	calls := 0
	predicate := func(workDir string) bool {
		calls++
		return calls > 1
	}

	result, err := d.Dispatch(context.Background(), Task{Credential: "k", Predicate: predicate})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "model-b", result.Model)
}

func TestClassifyOutcome(t *testing.T) {
	require.Equal(t, OutcomeRateLimit, classify(fmt.Errorf("HTTP 429 too many requests")))
	require.Equal(t, OutcomeRateLimit, classify(fmt.Errorf("please slow down, throttled")))
	require.Equal(t, OutcomeOther, classify(fmt.Errorf("connection refused")))
}
