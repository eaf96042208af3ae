package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tweak"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tweak",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tweak version %s\n", strings.TrimSpace(tweak.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
