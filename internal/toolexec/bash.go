package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/agentcore/agentcore/internal/tooling"
)

const (
	defaultBashTimeoutMs = 60_000
	bashPollInterval     = 50 * time.Millisecond // ~20Hz
)

// execBash spawns `bash -c <command>` and polls for completion at
// ~20Hz, racing the poll against the externally supplied kill flag and
// a deadline derived from the timeout argument (default 60s). On
// normal completion, stdout and stderr are appended (stderr under a
// "[stderr]" divider) and a non-zero exit fails the call with the
// exit code.
func execBash(ctx context.Context, record *tooling.Record, kill *atomicFlag, defaultTimeoutMs int) error {
	command, _ := record.StringArg("command")
	if defaultTimeoutMs <= 0 {
		defaultTimeoutMs = defaultBashTimeoutMs
	}
	timeoutMs := defaultTimeoutMs
	if v, ok, err := record.IntArg("timeout"); err != nil {
		return err
	} else if ok {
		timeoutMs = v
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn bash: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	ticker := time.NewTicker(bashPollInterval)
	defer ticker.Stop()

	for {
		select {
		case waitErr := <-done:
			record.AppendOutput(stdout.String())
			if stderr.Len() > 0 {
				record.AppendOutput(fmt.Sprintf("\n[stderr]\n%s", stderr.String()))
			}
			if waitErr != nil {
				return fmt.Errorf("exit code: %s", exitCodeOf(waitErr))
			}
			return nil
		case <-ticker.C:
			if kill.get() {
				_ = cmd.Process.Kill()
				<-done
				return errors.New("Killed by user")
			}
			if time.Now().After(deadline) {
				_ = cmd.Process.Kill()
				<-done
				return fmt.Errorf("Timeout after %dms", timeoutMs)
			}
		}
	}
}

func exitCodeOf(err error) string {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Sprintf("%d", exitErr.ExitCode())
	}
	return err.Error()
}
