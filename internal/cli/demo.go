package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/tweak"
	"github.com/aretw0/tweak/internal/config"
	"github.com/aretw0/tweak/internal/logging"
	"github.com/aretw0/tweak/internal/presentation/tui"
	httpAdapter "github.com/aretw0/tweak/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/tweak/pkg/adapters/mcp"
	"github.com/aretw0/tweak/pkg/adapters/memory"
	"github.com/aretw0/tweak/pkg/codegen"
	"github.com/aretw0/tweak/pkg/dsl"
	"github.com/aretw0/tweak/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HealthBar is the record tweaked by the demo.
type HealthBar struct {
	Left   float32
	Top    float32
	Width  float32
	Height float32
	Lives  uint8
}

// DemoOptions contains all the configuration for the demo command.
type DemoOptions struct {
	Config config.Config
	Out    io.Writer // terminal panel; defaults to os.Stdout
	Logger *slog.Logger
}

// Demo is a headless application drawing one health bar and a physics
// window per frame, tweakable over HTTP, MCP and the terminal panel.
type Demo struct {
	Panel    *tweak.Panel
	Host     *memory.Context
	Registry *prometheus.Registry
	Server   *httpAdapter.Server

	bar     *tweak.Group[HealthBar]
	speed   *tweak.Var[int]
	gravity *tweak.Var[float64]
	decl    []*dsl.Window

	cfg    config.Config
	out    io.Writer
	render tui.RenderFunc
	logger *slog.Logger
	x      float64
}

// NewDemo declares the demo's variables on a fresh panel.
func NewDemo(opts DemoOptions) (*Demo, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Stdout carries the JSON-RPC stream.
	if cfg.MCP == config.MCPStdio {
		cfg.Quiet = true
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	panel := tweak.New(
		tweak.WithLogger(logger),
		tweak.WithMetrics(observability.NewMetrics(reg)),
		tweak.WithHooks(createDebugHooks(logger)),
	)
	host := memory.New()

	d := &Demo{
		Panel:    panel,
		Host:     host,
		Registry: reg,
		bar:      tweak.MustGroup(panel, "health_bar", HealthBar{Left: 10, Top: 10, Width: 200, Height: 20, Lives: 3}),
		speed:    tweak.MustVar(panel, "speed", 3),
		gravity:  tweak.MustVar(panel, "gravity", 9.8),
		cfg:      cfg,
		out:      out,
		logger:   logger,
	}
	if cfg.Decl != "" {
		windows, err := loadDecl(panel, cfg.Decl)
		if err != nil {
			return nil, err
		}
		d.decl = windows
		logger.Info("Declarations loaded", "file", cfg.Decl, "windows", len(windows))
	}
	d.Server = httpAdapter.NewServer(host,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithVariables(panel.Snapshot),
	)

	if !cfg.Quiet {
		style := cfg.Style
		if style == "" {
			f, _ := out.(*os.File)
			style = tui.StyleFor(f)
		}
		render, err := tui.NewRenderer(style)
		if err != nil {
			return nil, err
		}
		d.render = render
	}
	return d, nil
}

// Frame draws one frame and prints the panel if anything changed.
func (d *Demo) Frame() error {
	bar := d.bar.Show(d.Host)
	tweak.Window(d.Host, "physics", d.speed, d.gravity)
	for _, w := range d.decl {
		w.Show(d.Host)
	}

	d.x += float64(d.speed.Value())
	if d.x > float64(bar.Width) {
		d.x = 0
	}
	d.logger.Debug("Frame drawn", "left", bar.Left, "top", bar.Top, "x", d.x)

	diff := d.Host.EndFrame()
	if diff == nil || d.render == nil {
		return nil
	}
	out, err := d.render(tui.FrameMarkdown(d.Host.Frame()))
	if err != nil {
		return fmt.Errorf("render panel: %w", err)
	}
	_, err = io.WriteString(d.out, out)
	return err
}

func loadDecl(panel *tweak.Panel, path string) ([]*dsl.Window, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open declarations: %w", err)
	}
	defer f.Close()

	file, err := codegen.Parse(f)
	if err != nil {
		return nil, err
	}
	b, err := dsl.FromFile(file)
	if err != nil {
		return nil, err
	}
	return b.Build(panel)
}

// Run serves the configured panels and draws frames until ctx is done or the
// configured frame count is reached.
func (d *Demo) Run(ctx context.Context) error {
	defer d.Server.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	serverErrors := make(chan error, 2)

	if d.cfg.Port > 0 {
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", d.cfg.Port),
			Handler: d.Server.Handler(),
		}
		go func() {
			d.logger.Info("HTTP panel listening", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrors <- err
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				d.logger.Error("HTTP panel shutdown failed", "err", err)
			}
		}()
	}

	if d.cfg.MCP != config.MCPOff {
		mcp := mcpAdapter.NewServer(d.Host, mcpAdapter.WithLogger(d.logger))
		go func() {
			var err error
			if d.cfg.MCP == config.MCPStdio {
				err = mcp.ServeStdio()
			} else {
				err = mcp.ServeSSE(ctx, d.cfg.MCPPort)
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrors <- fmt.Errorf("mcp: %w", err)
			}
		}()
	}

	if d.render != nil {
		tui.PrintBanner(d.out)
	}

	ticker := time.NewTicker(time.Second / time.Duration(d.cfg.FPS))
	defer ticker.Stop()

	for frames := 0; d.cfg.Frames == 0 || frames < d.cfg.Frames; frames++ {
		if err := d.Frame(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case err := <-serverErrors:
			return err
		case <-ticker.C:
		}
	}
	return nil
}

// RunDemo builds and runs a Demo.
func RunDemo(ctx context.Context, opts DemoOptions) error {
	d, err := NewDemo(opts)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}
