package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tweak",
	Short: "tweak declares runtime-tweakable numeric variables for debug UIs",
	Long: `tweak generates Go declarations of tweak groups from a YAML file and
runs a demo application whose values can be edited live over HTTP, MCP or the
terminal panel.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
