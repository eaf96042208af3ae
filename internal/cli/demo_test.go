package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/tweak/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Port = 0
	cfg.FPS = 1000
	cfg.Style = "notty"
	return cfg
}

func TestDemo_FrameAndDrag(t *testing.T) {
	var out bytes.Buffer
	d, err := NewDemo(DemoOptions{Config: testConfig(), Out: &out})
	require.NoError(t, err)

	require.NoError(t, d.Frame())
	assert.Contains(t, out.String(), "health_bar")
	assert.Contains(t, out.String(), "physics")

	out.Reset()
	require.NoError(t, d.Frame())
	assert.Empty(t, out.String(), "unchanged frames print nothing")

	require.NoError(t, d.Host.Drag("health_bar", "left", 42.5))
	require.NoError(t, d.Frame())
	assert.Contains(t, out.String(), "42.5")

	assert.Equal(t, float32(42.5), d.bar.Value().Left)
	edits := d.Panel.Metrics().Edits.WithLabelValues("group:health_bar", "left")
	assert.Equal(t, float64(1), testutil.ToFloat64(edits))
}

func TestRunDemo_StopsAfterFrames(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig()
	cfg.Frames = 3

	require.NoError(t, RunDemo(context.Background(), DemoOptions{Config: cfg, Out: &out}))
	assert.Equal(t, 1, strings.Count(out.String(), "health_bar"), "only the first frame changes")
}

func TestRunDemo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig()
	cfg.Quiet = true
	assert.NoError(t, RunDemo(ctx, DemoOptions{Config: cfg}))
}

func TestDemo_Decl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweak.decl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`package: hud
groups:
  - name: camera
    vars:
      - zoom: f32 = 1.5
vars:
  - speed: int = 3
`), 0o644))

	var out bytes.Buffer
	cfg := testConfig()
	cfg.Decl = path
	d, err := NewDemo(DemoOptions{Config: cfg, Out: &out})
	require.NoError(t, err)

	require.NoError(t, d.Frame())
	assert.Contains(t, out.String(), "camera")
	assert.Contains(t, out.String(), "Tweaks")

	// speed is shared with the demo's own variable.
	require.NoError(t, d.Host.Drag("Tweaks", "speed", 9))
	require.NoError(t, d.Frame())
	assert.Equal(t, 9, d.speed.Value())
}

func TestNewDemo_BadDecl(t *testing.T) {
	cfg := testConfig()
	cfg.Decl = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewDemo(DemoOptions{Config: cfg})
	assert.Error(t, err)
}

func TestNewDemo_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.FPS = 0
	_, err := NewDemo(DemoOptions{Config: cfg})
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	_, err := CreateLogger(false, "loud")
	assert.Error(t, err)

	logger, err := CreateLogger(true, "loud")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
