// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with LIVELIST, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LIVELIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/livelist", "$HOME/.livelist", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	return &cobra.Command{
		Use:   "livelist",
		Short: "Keep paged views of a live list in sync with the paginator that owns it",
		Long: `Keep paged views of a live list in sync with the paginator that owns it.

livelist serves page requests against a single live paginator session, matches
each request with the asynchronous updates that answer it and invalidates the
view whenever an update cannot be merged incrementally.`,
		SilenceUsage: true,
	}
}
