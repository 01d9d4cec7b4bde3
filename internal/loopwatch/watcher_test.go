package loopwatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithEmptyKeyDisablesWatcher(t *testing.T) {
	w := New("")
	stuck, reason, err := w.Check(context.Background(), []string{"grep", "read", "grep", "read"})
	require.NoError(t, err)
	require.False(t, stuck)
	require.Empty(t, reason)
}

func TestParseVerdictDirectJSON(t *testing.T) {
	v, ok := parseVerdict(`{"stuck": true, "confidence": 0.95, "reasoning": "repeating grep/read"}`)
	require.True(t, ok)
	require.True(t, v.Stuck)
	require.InDelta(t, 0.95, v.Confidence, 0.0001)
	require.Equal(t, "repeating grep/read", v.Reasoning)
}

func TestParseVerdictFencedJSON(t *testing.T) {
	text := "Here is my analysis:\n```json\n{\"stuck\": false, \"confidence\": 0.3, \"reasoning\": \"making progress\"}\n```\n"
	v, ok := parseVerdict(text)
	require.True(t, ok)
	require.False(t, v.Stuck)
}

func TestParseVerdictUnparsable(t *testing.T) {
	_, ok := parseVerdict("not json at all")
	require.False(t, ok)
}

func TestBuildPromptIncludesFrequency(t *testing.T) {
	prompt := buildPrompt([]string{"grep", "grep", "read"})
	require.Contains(t, prompt, "grep: 2 calls")
	require.Contains(t, prompt, "read: 1 calls")
}

func TestFromEnvDisableFlag(t *testing.T) {
	t.Setenv("AGENTCORE_DISABLE_LOOP_WATCH", "1")
	w := FromEnv()
	stuck, _, err := w.Check(context.Background(), []string{"bash"})
	require.NoError(t, err)
	require.False(t, stuck)
}
