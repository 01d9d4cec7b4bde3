package modelclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultEndpoint    = "https://openrouter.ai/api/v1/chat/completions"
	defaultReferer     = "https://github.com/agentcore/agentcore"
	defaultTitle       = "agentcore"
	requestTimeout     = 120 * time.Second
	maxRetries         = 3
	retryBaseDelayMs   = 500
	tokenChannelCap    = 256
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

// Client streams chat completions against an OpenAI-style SSE
// dialect and retries transient failures within a fixed budget.
type Client struct {
	Endpoint    string
	Referer     string
	Title       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client

	// retryLimiter paces retry attempts independent of the fixed
	// backoff schedule, so a burst of concurrently dispatched tasks
	// hitting the same rate-limited model don't all retry in lockstep.
	retryLimiter *rate.Limiter
}

// New returns a Client with the wire defaults from §6 (max_tokens
// 4096, temperature 0.7) and a 120s per-attempt HTTP timeout.
func New() *Client {
	return &Client{
		Endpoint:     defaultEndpoint,
		Referer:      defaultReferer,
		Title:        defaultTitle,
		MaxTokens:    defaultMaxTokens,
		Temperature:  defaultTemperature,
		HTTPClient:   &http.Client{Timeout: requestTimeout},
		retryLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// Stream returns immediately with a receiver; a background goroutine
// performs the network attempt(s) and closes the channel after
// sending exactly one terminal Done or Error event. Cancellation is
// effected by the caller abandoning the channel: draining stops and
// ctx cancellation tears down the in-flight HTTP request on its next
// read.
func (c *Client) Stream(ctx context.Context, credential, model string, messages []Message) (<-chan Event, error) {
	if credential == "" {
		return nil, fmt.Errorf("modelclient: credential is required")
	}
	if model == "" {
		return nil, fmt.Errorf("modelclient: model is required")
	}

	ch := make(chan Event, tokenChannelCap)
	req := c.buildRequest(model, messages)

	go func() {
		defer close(ch)
		usage, err := c.doStream(ctx, credential, req, ch)
		if err != nil {
			send(ctx, ch, Event{Kind: EventError, ErrText: err.Error()})
			return
		}
		send(ctx, ch, Event{Kind: EventDone, Usage: usage})
	}()

	return ch, nil
}

func (c *Client) buildRequest(model string, messages []Message) chatRequest {
	wireMessages := make([]chatMessage, len(messages))
	for i, m := range messages {
		wireMessages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	return chatRequest{
		Model:       model,
		Messages:    wireMessages,
		Stream:      true,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}

// doStream runs up to maxRetries attempts with exponential backoff
// (500ms before the second attempt, 1000ms before the third), emitting an informational "[Retrying in
// Nms...]" token before each retry so callers observe it even through
// an opaque stream.
func (c *Client) doStream(ctx context.Context, credential string, req chatRequest, ch chan<- Event) (Usage, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(retryBaseDelayMs*(1<<(attempt-1))) * time.Millisecond
			send(ctx, ch, Event{Kind: EventToken, Token: fmt.Sprintf("\n[Retrying in %dms...]\n", delay.Milliseconds())})
			if err := c.retryLimiter.Wait(ctx); err != nil {
				return Usage{}, err
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Usage{}, ctx.Err()
			}
		}

		usage, err := c.attempt(ctx, credential, req, ch)
		if err == nil {
			return usage, nil
		}

		if !isRetryable(err) {
			return Usage{}, err
		}
		slog.Debug("modelclient: retrying after transient error", "attempt", attempt+1, "error", err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("modelclient: max retries exceeded")
	}
	return Usage{}, lastErr
}

// isRetryable classifies an attempt error by HTTP semantics or a
// substring match, never both retrying auth/rate-limit failures.
func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "429") {
		return false
	}
	for _, sub := range []string{"timeout", "connect", "reset", "closed"} {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

// attempt performs one HTTP POST and SSE read loop.
func (c *Client) attempt(ctx context.Context, credential string, req chatRequest, ch chan<- Event) (Usage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Usage{}, fmt.Errorf("modelclient: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Usage{}, fmt.Errorf("modelclient: connect: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+credential)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", c.Referer)
	httpReq.Header.Set("X-Title", c.Title)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return Usage{}, fmt.Errorf("modelclient: connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Usage{}, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return c.readSSE(ctx, resp.Body, ch)
}

// readSSE reads the response body line by line, stripping the
// `data: ` prefix, skipping the [DONE] sentinel, and decoding each
// remaining payload as a streamChunk.
func (c *Client) readSSE(ctx context.Context, body io.Reader, ch chan<- Event) (Usage, error) {
	var usage Usage
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if data == "[DONE]" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Debug("modelclient: failed to decode chunk", "error", err)
			continue
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta != nil && chunk.Choices[0].Delta.Content != "" {
			send(ctx, ch, Event{Kind: EventToken, Token: chunk.Choices[0].Delta.Content})
		}
		if chunk.Usage != nil {
			usage = Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return usage, fmt.Errorf("stream read error: %w", err)
	}
	return usage, nil
}

func send(ctx context.Context, ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
