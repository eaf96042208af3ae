package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tweak/pkg/codegen"
	"github.com/spf13/cobra"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate Go declarations from a YAML declaration file",
	Long: `Reads tweak groups and variables from a YAML declaration file, validates
every declaration and writes gofmt'd Go source.

Example:
  tweak gen -f hud.yaml -o hud_tweak.go`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		output, _ := cmd.Flags().GetString("output")

		var in io.Reader = cmd.InOrStdin()
		if file != "-" {
			fh, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open declarations: %w", err)
			}
			defer fh.Close()
			in = fh
		}

		f, err := codegen.Parse(in)
		if err != nil {
			return err
		}
		src, err := codegen.Generate(f)
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(src)
			return err
		}
		if err := os.WriteFile(output, src, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Generated %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().StringP("file", "f", "tweak.decl.yaml", "Declaration file ('-' reads stdin)")
	genCmd.Flags().StringP("output", "o", "", "Output Go file (default stdout)")
}
