package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDispatchCmd() *cobra.Command {
	var configPath string
	var rounds int

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Print the round-robin model rotation for a config, without calling any model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			printRotation(cfg.Models, rounds)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "agentcore.yaml", "path to the run configuration")
	cmd.Flags().IntVar(&rounds, "rounds", 5, "number of dispatch rounds to simulate")

	return cmd
}

// printRotation simulates the model order that `rounds` successive
// Dispatch calls on a fresh Dispatcher would visit, mirroring the
// Dispatcher's own rotating-counter arithmetic without ever streaming
// anything.
func printRotation(models []string, rounds int) {
	if len(models) == 0 {
		fmt.Println("no models configured")
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s %v\n", bold("models:"), models)

	for round := 0; round < rounds; round++ {
		start := round % len(models)
		order := make([]string, len(models))
		for i := range order {
			order[i] = models[(start+i)%len(models)]
		}
		fmt.Printf("  round %d: %v\n", round+1, order)
	}
}
