package modelclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestStreamSuccessEmitsTokensThenDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[],\"usage\":{\"prompt_tokens\":10,\"completion_tokens\":2,\"total_tokens\":12}}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := New()
	c.Endpoint = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := c.Stream(ctx, "secret", "test-model", []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)

	events := drain(t, ch)
	require.GreaterOrEqual(t, len(events), 3)

	var tokens string
	for _, ev := range events[:len(events)-1] {
		require.Equal(t, EventToken, ev.Kind)
		tokens += ev.Token
	}
	require.Equal(t, "Hello world", tokens)

	last := events[len(events)-1]
	require.Equal(t, EventDone, last.Kind)
	require.Equal(t, Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}, last.Usage)
}

func TestStreamMissingCredential(t *testing.T) {
	c := New()
	_, err := c.Stream(context.Background(), "", "model", nil)
	require.Error(t, err)
}

func TestStreamAuthErrorNoRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "unauthorized")
	}))
	defer srv.Close()

	c := New()
	c.Endpoint = srv.URL

	ch, err := c.Stream(context.Background(), "bad", "model", []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)

	events := drain(t, ch)
	require.Len(t, events, 1)
	require.Equal(t, EventError, events[0].Kind)
	require.Contains(t, events[0].ErrText, "401")
	require.Equal(t, 1, attempts)
}

// flakyTransport fails the first N round trips with a retryable
// network error, then delegates to the real transport.
type flakyTransport struct {
	failures  int
	remaining int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.remaining > 0 {
		f.remaining--
		return nil, fmt.Errorf("dial tcp: connection reset by peer")
	}
	return http.DefaultTransport.RoundTrip(req)
}

func TestStreamRetriesOnConnectionReset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	transport := &flakyTransport{remaining: 1}
	c := New()
	c.Endpoint = srv.URL
	c.HTTPClient = &http.Client{Transport: transport}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch, err := c.Stream(ctx, "secret", "model", []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)

	events := drain(t, ch)
	require.NotEmpty(t, events)
	require.Equal(t, EventDone, events[len(events)-1].Kind)
	require.Equal(t, 0, transport.remaining)
}

func TestIsRetryableClassification(t *testing.T) {
	require.False(t, isRetryable(fmt.Errorf("API error 401: nope")))
	require.False(t, isRetryable(fmt.Errorf("API error 429: slow down")))
	require.True(t, isRetryable(fmt.Errorf("connect: connection refused")))
	require.True(t, isRetryable(fmt.Errorf("read: connection reset by peer")))
	require.False(t, isRetryable(fmt.Errorf("semantic parse failure")))
}
