package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentcore/agentcore/internal/agentloop"
	"github.com/agentcore/agentcore/internal/dispatch"
	"github.com/agentcore/agentcore/internal/loopwatch"
	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/toolexec"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var configPath, prompt string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one task end-to-end against a configured model list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd.Context(), configPath, prompt)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "agentcore.yaml", "path to the run configuration")
	cmd.Flags().StringVar(&prompt, "prompt", "", "the task prompt")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func runTask(ctx context.Context, configPath, prompt string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	credential := os.Getenv("AGENTCORE_API_KEY")
	if credential == "" {
		return fmt.Errorf("AGENTCORE_API_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := modelclient.New()
	dispatcher := dispatch.New(cfg.Models, client, cfg.MaxConcurrentDispatch)

	loop := agentloop.New(&dispatchResponder{dispatcher: dispatcher, credential: credential}, toolexec.NewWithTimeout(cfg.TimeoutPerToolMs))
	loop.Watcher = loopwatch.FromEnv()

	runCfg := agentloop.RunConfig{
		MaxIterations:            cfg.MaxIterations,
		MaxToolCallsPerIteration: cfg.MaxToolCallsPerIteration,
		TimeoutPerToolMs:         cfg.TimeoutPerToolMs,
		WorkDir:                  cfg.WorkDir,
		AILoopCheckInterval:      cfg.AILoopCheckInterval,
	}
	if runCfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		runCfg.WorkDir = wd
	}

	result, err := loop.Run(ctx, prompt, runCfg)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printResult(result)
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func printResult(result *agentloop.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	switch {
	case result.Success:
		fmt.Printf("%s after %d iteration(s), %d tool call(s)\n", green("Task complete"), result.Iterations, result.ToolCallsExecuted)
	case result.Outcome == agentloop.OutcomeMaxIterations:
		fmt.Printf("%s: hit max iterations (%d)\n", yellow("Incomplete"), result.Iterations)
	default:
		fmt.Printf("%s (%s): %s\n", red("Failed"), result.Outcome, result.Error)
	}
}

// dispatchResponder adapts a Dispatcher to the Agent Loop's Responder
// interface, accumulating the dispatch's final text as one response.
type dispatchResponder struct {
	dispatcher *dispatch.Dispatcher
	credential string
}

func (r *dispatchResponder) Respond(ctx context.Context, messages []modelclient.Message) (string, error) {
	result, err := r.dispatcher.Dispatch(ctx, dispatch.Task{Credential: r.credential, Messages: messages})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
