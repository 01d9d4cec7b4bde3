// Package loopwatch is the stuck-loop arbiter: periodically it asks a
// small model to judge whether the Agent Loop's recent tool-call
// sequence is an unproductive loop. It never halts anything itself;
// it returns a verdict the Agent Loop may act on.
package loopwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	arbiterModel     = "claude-3-5-haiku-20241022"
	arbiterMaxTokens = 500
	arbiterTimeout   = 10 * time.Second
	// confidenceThreshold: the arbiter must be this sure before the
	// verdict is honored.
	confidenceThreshold = 0.8
)

// Watcher calls an Anthropic model to arbitrate whether a window of
// recent tool calls looks like a stuck loop.
type Watcher struct {
	client *anthropic.Client
}

// New returns a Watcher using apiKey for authentication. Construction
// never fails; a missing key simply makes every Check a no-op, so
// callers can wire a Watcher unconditionally and let it self-disable.
func New(apiKey string) *Watcher {
	if apiKey == "" {
		return &Watcher{}
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Watcher{client: &c}
}

// Check asks the arbiter whether recentTools indicates an unproductive
// loop. A nil client, a network failure, or an unparsable response all
// resolve to (false, "", nil): the arbiter degrades to a no-op rather
// than ever halting the loop on its own account.
func (w *Watcher) Check(ctx context.Context, recentTools []string) (bool, string, error) {
	if w.client == nil {
		return false, "", nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, arbiterTimeout)
	defer cancel()

	resp, err := w.client.Messages.New(checkCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(arbiterModel),
		MaxTokens: int64(arbiterMaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(recentTools))),
		},
	})
	if err != nil {
		slog.Debug("loopwatch: arbiter call failed, continuing", "error", err)
		return false, "", nil
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return false, "", nil
	}

	verdict, ok := parseVerdict(text.String())
	if !ok {
		return false, "", nil
	}
	if verdict.Stuck && verdict.Confidence > confidenceThreshold {
		return true, verdict.Reasoning, nil
	}
	return false, "", nil
}

type verdict struct {
	Stuck      bool    `json:"stuck"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// parseVerdict decodes the arbiter's strict JSON reply, falling back
// to extracting a ```json fenced block if the direct parse fails.
func parseVerdict(text string) (verdict, bool) {
	var v verdict
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, true
	}

	const fence = "```json"
	start := strings.Index(text, fence)
	if start < 0 {
		return verdict{}, false
	}
	start += len(fence)
	end := strings.Index(text[start:], "```")
	if end < 0 {
		return verdict{}, false
	}
	if err := json.Unmarshal([]byte(text[start:start+end]), &v); err != nil {
		return verdict{}, false
	}
	return v, true
}

func buildPrompt(recentTools []string) string {
	freq := make(map[string]int)
	for _, tool := range recentTools {
		freq[tool]++
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Recent tool calls (last %d):\n", len(recentTools))
	fmt.Fprintf(&summary, "Tool sequence: %v\n\n", recentTools)
	summary.WriteString("Tool frequency:\n")
	for tool, count := range freq {
		fmt.Fprintf(&summary, "  %s: %d calls\n", tool, count)
	}

	return fmt.Sprintf(`You are analyzing agent tool usage to detect infinite loops.

%s

Is this agent stuck in an unproductive loop? Consider:
- Is the agent repeating the same tools without making progress?
- Are we seeing patterns like: grep -> read -> grep -> read repeatedly?

Respond with JSON:
{
  "stuck": true/false,
  "confidence": 0.0-1.0,
  "reasoning": "Brief explanation"
}

Only say stuck=true if you're confident (>0.8) this is a loop.`, summary.String())
}

// FromEnv returns a Watcher configured from ANTHROPIC_API_KEY, or a
// permanently-disabled Watcher if VC_DISABLE_AI_LOOP_DETECTION-style
// opt-out is set via AGENTCORE_DISABLE_LOOP_WATCH.
func FromEnv() *Watcher {
	if os.Getenv("AGENTCORE_DISABLE_LOOP_WATCH") != "" {
		return &Watcher{}
	}
	return New(os.Getenv("ANTHROPIC_API_KEY"))
}
