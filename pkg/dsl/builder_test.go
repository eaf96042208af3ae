package dsl

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aretw0/tweak"
	"github.com/aretw0/tweak/pkg/adapters/memory"
	"github.com/aretw0/tweak/pkg/codegen"
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Group(t *testing.T) {
	panel := tweak.New()
	host := memory.New()

	b := New()
	b.Group("health_bar").
		Float32("left", 0).
		Float32("top", 1)

	windows, err := b.Build(panel)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	w := windows[0]
	assert.Equal(t, []domain.Key{domain.GroupKey("health_bar")}, w.Keys())

	assert.Equal(t, map[string]float64{"left": 0, "top": 1}, w.Show(host))
	host.EndFrame()

	require.NoError(t, host.Drag("health_bar", "left", 42.5))
	assert.Equal(t, map[string]float64{"left": 42.5, "top": 1}, w.Show(host))
	assert.Equal(t, 42.5, w.Values()["left"])

	frame := host.Frame()
	win, ok := frame.Window("health_bar")
	require.True(t, ok)
	assert.Equal(t, domain.KindFloat32, win.Rows[0].Kind)
}

func TestBuilder_RebuildKeepsValues(t *testing.T) {
	panel := tweak.New()
	host := memory.New()

	build := func(init float32) *Window {
		b := New()
		b.Group("hud").Float32("zoom", init)
		windows, err := b.Build(panel)
		require.NoError(t, err)
		return windows[0]
	}

	first := build(1)
	first.Show(host)
	host.EndFrame()
	require.NoError(t, host.Drag("hud", "zoom", 3))
	first.Show(host)

	second := build(99)
	assert.Equal(t, 3.0, second.Values()["zoom"], "initial value applies once")
}

func TestBuilder_Vars(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	speed := tweak.MustVar(panel, "speed", 5)

	b := New()
	b.Vars("Physics").
		Int("speed", 3).
		Float64("gravity", 9.8)

	windows, err := b.Build(panel)
	require.NoError(t, err)
	w := windows[0]

	// speed already exists as an int variable: it is shared.
	assert.Equal(t, map[string]float64{"speed": 5, "gravity": 9.8}, w.Show(host))
	host.EndFrame()

	require.NoError(t, host.Drag("Physics", "speed", 7))
	w.Show(host)
	assert.Equal(t, 7, speed.Value())
}

func TestBuilder_WideIntegersKeepEveryDigit(t *testing.T) {
	panel := tweak.New()

	b := New()
	b.Vars("Wide").
		Var("big", domain.KindInt64, "9007199254740993").
		Var("ubig", domain.KindUint64, "18446744073709551615")
	b.Group("ids").Var("seed", domain.KindInt64, "-9007199254740993")
	_, err := b.Build(panel)
	require.NoError(t, err)

	assert.Equal(t, int64(9007199254740993), tweak.MustVar(panel, "big", int64(0)).Value())
	assert.Equal(t, uint64(18446744073709551615), tweak.MustVar(panel, "ubig", uint64(0)).Value())

	cell, ok := panel.Registry().Get(domain.GroupKey("ids"))
	require.True(t, ok)
	cell.With(func(s *registry.Storage) {
		f, ok := s.Field("seed")
		require.True(t, ok)
		assert.Equal(t, int64(-9007199254740993), reflect.ValueOf(s.Interface()).Elem().Field(0).Int())
		assert.Equal(t, domain.KindInt64, f.Kind())
	})
}

func TestBuilder_Errors(t *testing.T) {
	panel := tweak.New()
	tweak.MustVar(panel, "speed", float32(1))

	b := New()
	b.Group("bad name").Float32("x", 0)
	b.Group("empty")
	b.Group("dup").Float32("bar_width", 0).Float32("barWidth", 0)
	b.Group("lit").Var("lives", domain.KindUint8, "300").Var("kind", domain.KindInvalid, "0")
	b.Vars("Physics").Int("speed", 3)

	_, err := b.Build(panel)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	assert.ErrorIs(t, err, domain.ErrEmptyGroup)
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentifier)
	assert.ErrorIs(t, err, domain.ErrInvalidLiteral)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.Equal(t, 1, panel.Registry().Len())
}

type hudRecord struct {
	Zoom float32 `tweak:"zoom"`
}

func TestBuilder_GroupTypeDiffersFromGoRecord(t *testing.T) {
	panel := tweak.New()
	tweak.MustGroup(panel, "hud", hudRecord{})

	b := New()
	b.Group("hud").Float32("zoom", 0)
	_, err := b.Build(panel)
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestFromFile(t *testing.T) {
	src := `package: hud
window: Debug
groups:
  - name: health_bar
    vars:
      - left: f32 = 0.5
      - lives: u8 = 3
vars:
  - speed: i32 = -3
`
	f, err := codegen.Parse(strings.NewReader(src))
	require.NoError(t, err)

	b, err := FromFile(f)
	require.NoError(t, err)
	windows, err := b.Build(tweak.New())
	require.NoError(t, err)
	require.Len(t, windows, 2)

	assert.Equal(t, "health_bar", windows[0].Title)
	assert.Equal(t, map[string]float64{"left": 0.5, "lives": 3}, windows[0].Values())
	assert.Equal(t, "Debug", windows[1].Title)
	assert.Equal(t, map[string]float64{"speed": -3}, windows[1].Values())
}

func TestFromFile_Invalid(t *testing.T) {
	_, err := FromFile(&codegen.File{Package: "hud"})
	assert.ErrorIs(t, err, domain.ErrEmptyGroup)
}
