package main

import (
	"os"

	"github.com/livelist/livelist/cmd"
	"github.com/livelist/livelist/cmd/simulate"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	simulateCmd := simulate.NewSimulateCommand()
	rootCmd.AddCommand(simulateCmd)

	versionCmd := cmd.NewVersionCommand()
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
