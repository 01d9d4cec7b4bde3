package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of an agentcore run configuration.
// The core itself never reads files or environment variables (§6);
// this wrapper is the one external collaborator that does.
type fileConfig struct {
	Models                   []string `yaml:"models"`
	MaxIterations            int      `yaml:"max_iterations"`
	MaxToolCallsPerIteration int      `yaml:"max_tool_calls_per_iteration"`
	TimeoutPerToolMs         int      `yaml:"timeout_per_tool_ms"`
	WorkDir                  string   `yaml:"work_dir"`
	AILoopCheckInterval      int      `yaml:"ai_loop_check_interval"`
	MaxConcurrentDispatch    int64    `yaml:"max_concurrent_dispatch"`
}

func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(cfg.Models) == 0 {
		return fileConfig{}, fmt.Errorf("config %s: at least one model is required", path)
	}
	return cfg, nil
}
