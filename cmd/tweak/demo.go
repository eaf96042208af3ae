package main

import (
	"github.com/aretw0/tweak/internal/cli"
	"github.com/aretw0/tweak/internal/config"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a demo application with live-tweakable values",
	Long: `Runs a headless frame loop that draws a health bar and a physics window.
Values can be edited while it runs:

- HTTP: POST /windows/{title}/drag on --port, SSE diffs on /events
- MCP: --mcp stdio or --mcp sse (tools list_windows, get_window, drag_value)

--decl adds the windows of a declaration file (the tweak gen input format).

Flags override the values of the --config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("fps") {
			cfg.FPS, _ = flags.GetInt("fps")
		}
		if flags.Changed("frames") {
			cfg.Frames, _ = flags.GetInt("frames")
		}
		if flags.Changed("decl") {
			cfg.Decl, _ = flags.GetString("decl")
		}
		if flags.Changed("mcp") {
			cfg.MCP, _ = flags.GetString("mcp")
		}
		if flags.Changed("mcp-port") {
			cfg.MCPPort, _ = flags.GetInt("mcp-port")
		}
		if flags.Changed("quiet") {
			cfg.Quiet, _ = flags.GetBool("quiet")
		}
		debug, _ := flags.GetBool("debug")

		logger, err := cli.CreateLogger(debug, cfg.LogLevel)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.RunDemo(ctx, cli.DemoOptions{
			Config: cfg,
			Out:    cmd.OutOrStdout(),
			Logger: logger,
		})
		if sig := ctx.Signal(); sig != nil {
			logger.Info("Demo stopped", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().String("config", "tweak.yaml", "Demo configuration file (YAML or JSON)")
	demoCmd.Flags().IntP("port", "p", 8080, "HTTP panel port (0 disables)")
	demoCmd.Flags().Int("fps", 30, "Frames per second")
	demoCmd.Flags().Int("frames", 0, "Stop after this many frames (0 runs until interrupted)")
	demoCmd.Flags().String("decl", "", "Declaration file whose windows are drawn every frame")
	demoCmd.Flags().String("mcp", config.MCPOff, "MCP transport: off, stdio or sse")
	demoCmd.Flags().Int("mcp-port", 8081, "MCP SSE port")
	demoCmd.Flags().BoolP("quiet", "q", false, "Do not print the terminal panel")
	demoCmd.Flags().Bool("debug", false, "Enable debug logging")
}
