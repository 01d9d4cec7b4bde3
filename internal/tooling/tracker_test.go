package tooling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerAddGet(t *testing.T) {
	tr := NewTracker()
	r1 := NewRecord("read", nil)
	r2 := NewRecord("write", nil)

	i1 := tr.Add(r1)
	i2 := tr.Add(r2)
	require.Equal(t, 0, i1)
	require.Equal(t, 1, i2)
	require.Equal(t, 2, tr.Len())
	require.Same(t, r1, tr.Get(i1))
	require.Same(t, r2, tr.Get(i2))
}

func TestTrackerGetOutOfRange(t *testing.T) {
	tr := NewTracker()
	require.Nil(t, tr.Get(0))
	require.Nil(t, tr.Get(-1))
}

func TestTrackerStatusSummary(t *testing.T) {
	tr := NewTracker()

	pending := NewRecord("read", nil)
	tr.Add(pending)

	running := NewRecord("read", nil)
	running.Start()
	tr.Add(running)

	done := NewRecord("read", nil)
	done.Start()
	done.Complete()
	tr.Add(done)

	failed := NewRecord("read", nil)
	failed.Start()
	failed.Fail("boom")
	tr.Add(failed)

	killed := NewRecord("bash", nil)
	killed.Start()
	killed.Kill("Killed by user")
	tr.Add(killed)

	summary := tr.StatusSummary()
	require.Equal(t, Summary{Pending: 1, Running: 1, Done: 1, Failed: 1, Killed: 1}, summary)
	require.Equal(t, 2, summary.Live())
}

func TestTrackerAllPreservesOrder(t *testing.T) {
	tr := NewTracker()
	var recs []*Record
	for i := 0; i < 5; i++ {
		r := NewRecord("read", nil)
		recs = append(recs, r)
		tr.Add(r)
	}
	all := tr.All()
	require.Len(t, all, 5)
	for i := range recs {
		require.Same(t, recs[i], all[i])
	}
}
