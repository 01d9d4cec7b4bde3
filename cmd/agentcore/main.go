// Command agentcore is a CLI wrapper around the agent loop core: it
// loads a YAML configuration, wires the Tool Executor and a Dispatcher
// over the configured model list (even when it holds one model), and
// runs one task.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "agentcore",
		Short: "Autonomous coding-assistant core CLI",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newDispatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
