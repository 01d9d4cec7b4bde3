package agentloop

// RunConfig bounds one task: maximum iterations, maximum tool calls
// admitted per iteration, and the per-tool timeout announced to the
// Executor's bash tool when a call omits its own. WorkDir is
// announced to the model for path-sensitive tool calls; the core
// never interprets it itself.
type RunConfig struct {
	MaxIterations            int
	MaxToolCallsPerIteration int
	TimeoutPerToolMs         int
	WorkDir                  string

	// AILoopCheckInterval, when > 0, runs the stuck-loop arbiter every
	// N tool calls (supplemented feature, off by default).
	AILoopCheckInterval int
}

// DefaultRunConfig returns the §6 defaults.
func DefaultRunConfig(workDir string) RunConfig {
	return RunConfig{
		MaxIterations:            20,
		MaxToolCallsPerIteration: 5,
		TimeoutPerToolMs:         60_000,
		WorkDir:                  workDir,
	}
}

func (c RunConfig) withDefaults() RunConfig {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 20
	}
	if c.MaxToolCallsPerIteration <= 0 {
		c.MaxToolCallsPerIteration = 5
	}
	if c.TimeoutPerToolMs <= 0 {
		c.TimeoutPerToolMs = 60_000
	}
	return c
}
