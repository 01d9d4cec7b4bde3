package tooling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRecordStartsPending(t *testing.T) {
	r := NewRecord("read", map[string]any{"path": "a.txt"})
	require.Equal(t, StatusPending, r.Status())
	require.NotEmpty(t, r.ID)
	_, ok := r.Started()
	require.False(t, ok)
}

func TestRecordLifecycleDone(t *testing.T) {
	r := NewRecord("read", nil)
	r.Start()
	require.Equal(t, StatusRunning, r.Status())
	started, ok := r.Started()
	require.True(t, ok)
	require.False(t, started.IsZero())

	r.AppendOutput("hello ")
	r.AppendOutput("world")
	require.Equal(t, "hello world", r.Output())

	r.Complete()
	require.Equal(t, StatusDone, r.Status())
	require.True(t, r.IsTerminal())
	require.Empty(t, r.Error())
	_, ok = r.Finished()
	require.True(t, ok)
}

func TestRecordLifecycleFailed(t *testing.T) {
	r := NewRecord("bash", nil)
	r.Start()
	r.Fail("exit code 1")
	require.Equal(t, StatusFailed, r.Status())
	require.Equal(t, "exit code 1", r.Error())
	require.True(t, r.IsTerminal())
}

func TestRecordLifecycleKilled(t *testing.T) {
	r := NewRecord("bash", nil)
	r.Start()
	r.Kill("Killed by user")
	require.Equal(t, StatusKilled, r.Status())
	require.Equal(t, "Killed by user", r.Error())
	require.True(t, r.IsTerminal())
}

func TestRecordStringArg(t *testing.T) {
	r := NewRecord("read", map[string]any{"path": "a.txt"})
	v, err := r.StringArg("path")
	require.NoError(t, err)
	require.Equal(t, "a.txt", v)

	_, err = r.StringArg("missing")
	require.Error(t, err)

	r2 := NewRecord("read", map[string]any{"path": 5})
	_, err = r2.StringArg("path")
	require.Error(t, err)
}

func TestRecordIntArg(t *testing.T) {
	r := NewRecord("bash", map[string]any{"timeout": float64(5000)})
	v, ok, err := r.IntArg("timeout")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5000, v)

	r2 := NewRecord("bash", nil)
	_, ok, err = r2.IntArg("timeout")
	require.NoError(t, err)
	require.False(t, ok)

	r3 := NewRecord("bash", map[string]any{"timeout": "oops"})
	_, _, err = r3.IntArg("timeout")
	require.Error(t, err)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "pending", StatusPending.String())
	require.Equal(t, "running", StatusRunning.String())
	require.Equal(t, "done", StatusDone.String())
	require.Equal(t, "failed", StatusFailed.String())
	require.Equal(t, "killed", StatusKilled.String())
}
