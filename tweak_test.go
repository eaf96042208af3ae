package tweak_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/tweak"
	"github.com/aretw0/tweak/internal/testutils"
	"github.com/aretw0/tweak/pkg/adapters/memory"
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	Left float32
	Top  float32
}

func TestGroup_LeftScenario(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	g := tweak.MustGroup(panel, "health_bar", position{})

	v := g.Show(host)
	host.EndFrame()
	assert.Equal(t, float32(0), v.Left)

	require.NoError(t, host.Drag("health_bar", "left", 42.5))
	v = g.Show(host)
	host.EndFrame()
	assert.Equal(t, float32(42.5), v.Left, "edit must be visible in the same frame")

	v = g.Show(host)
	host.EndFrame()
	assert.Equal(t, float32(42.5), v.Left, "edit must persist without re-initialization")
}

func TestGroup_IndependentFields(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	g := tweak.MustGroup(panel, "health_bar", position{Left: 0, Top: 1})

	v := g.Show(host)
	host.EndFrame()
	assert.Equal(t, position{Left: 0, Top: 1}, v)

	require.NoError(t, host.Drag("health_bar", "left", 7))
	v = g.Show(host)
	host.EndFrame()
	assert.Equal(t, position{Left: 7, Top: 1}, v)
	assert.Equal(t, v, g.Value())
}

func TestGroup_InitializedOnce(t *testing.T) {
	panel := tweak.New()
	host := memory.New()

	first := tweak.MustGroup(panel, "hud", position{Left: 5})
	first.Show(host)

	second := tweak.MustGroup(panel, "hud", position{Left: 99, Top: 99})
	assert.Equal(t, position{Left: 5}, second.Show(host))
	assert.Equal(t, 1, panel.Registry().Len())
}

func TestGroup_ScopeIsolation(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	a := tweak.MustGroup(panel, "a", position{})
	b := tweak.MustGroup(panel, "b", position{})

	a.Show(host)
	b.Show(host)
	host.EndFrame()

	require.NoError(t, host.Drag("a", "left", 3))
	va := a.Show(host)
	vb := b.Show(host)

	assert.Equal(t, float32(3), va.Left)
	assert.Equal(t, float32(0), vb.Left, "groups with different ids must not share storage")
}

func TestGroup_TagsAndRowOrder(t *testing.T) {
	type bar struct {
		BarWidth  float64
		HPMax     int    `tweak:"max_hp"`
		Skipped   int    `tweak:"-"`
		Name      string `tweak:"-"`
		unexposed int
	}

	panel := tweak.New()
	host := memory.New()
	g := tweak.MustGroup(panel, "bar", bar{BarWidth: 10, HPMax: 100, Skipped: 1})
	v := g.Show(host)
	host.EndFrame()

	assert.Equal(t, 1, v.Skipped)
	w, ok := host.Frame().Window("bar")
	require.True(t, ok)
	require.Len(t, w.Rows, 2)
	assert.Equal(t, domain.Row{Label: "bar_width", Kind: domain.KindFloat64, Value: 10}, w.Rows[0])
	assert.Equal(t, domain.Row{Label: "max_hp", Kind: domain.KindInt, Value: 100}, w.Rows[1])
	_ = v.unexposed
}

func TestGroup_IntegerFieldsRoundAndClamp(t *testing.T) {
	type counts struct {
		Lives uint8
		Score int16
	}

	panel := tweak.New()
	host := memory.New()
	g := tweak.MustGroup(panel, "counts", counts{Lives: 3})
	g.Show(host)
	host.EndFrame()

	require.NoError(t, host.Drag("counts", "lives", 300))
	require.NoError(t, host.Drag("counts", "score", -2.6))
	v := g.Show(host)

	assert.Equal(t, counts{Lives: 255, Score: -3}, v)
}

func TestGroup_ClosedWindowReturnsStoredValues(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	g := tweak.MustGroup(panel, "hud", position{Top: 1})
	g.Show(host)
	host.EndFrame()

	require.NoError(t, host.Drag("hud", "left", 9))
	host.SetOpen("hud", false)
	v := g.Show(host)
	host.EndFrame()

	assert.Equal(t, position{Top: 1}, v)
	assert.Equal(t, 1, host.Pending(), "drag stays queued while the window is closed")

	host.SetOpen("hud", true)
	assert.Equal(t, position{Left: 9, Top: 1}, g.Show(host))
}

func TestDeclareGroup_Errors(t *testing.T) {
	panel := tweak.New()

	_, err := tweak.DeclareGroup(panel, "not valid", position{})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)

	_, err = tweak.DeclareGroup(panel, "scalar", 3)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = tweak.DeclareGroup(panel, "empty", struct{}{})
	assert.ErrorIs(t, err, domain.ErrEmptyGroup)

	type bad struct {
		Name  string
		Left  float32
		Right float32 `tweak:"left"`
	}
	_, err = tweak.DeclareGroup(panel, "bad", bad{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentifier)
	assert.Len(t, domain.ValidationErrors(err), 2)

	_, err = tweak.DeclareGroup(panel, "hud", position{})
	require.NoError(t, err)
	_, err = tweak.DeclareGroup(panel, "hud", struct{ Left float64 }{})
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)

	assert.Equal(t, 1, panel.Registry().Len(), "failed declarations must not allocate storage")
	assert.Panics(t, func() { tweak.MustGroup(panel, "", position{}) })
}

func TestVar_CollisionAcrossWindows(t *testing.T) {
	panel := tweak.New()
	host := memory.New()

	// Two windows that happen to declare "left" with the same type share it.
	inA := tweak.MustVar(panel, "left", float32(0))
	inB := tweak.MustVar(panel, "left", float32(100))

	tweak.Window(host, "A", inA)
	tweak.Window(host, "B", inB)
	host.EndFrame()

	require.NoError(t, host.Drag("A", "left", 42.5))
	tweak.Window(host, "A", inA)
	tweak.Window(host, "B", inB)
	host.EndFrame()

	assert.Equal(t, float32(42.5), inA.Value())
	assert.Equal(t, float32(42.5), inB.Value())
	b, _ := host.Frame().Window("B")
	row, _ := b.Row("left")
	assert.Equal(t, 42.5, row.Value)
	assert.Equal(t, 1, panel.Registry().Len())
}

func TestVar_TypeMismatch(t *testing.T) {
	panel := tweak.New()
	tweak.MustVar(panel, "left", float32(0))

	_, err := tweak.DeclareVar(panel, "left", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTypeMismatch))

	_, err = tweak.DeclareVar(panel, "9lives", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)

	_, err = tweak.DeclareVar(panel, "ptr", uintptr(0))
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestVar_Show(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	speed := tweak.MustVar(panel, "speed", 3)

	assert.Equal(t, 3, speed.Show(host, "Physics"))
	host.EndFrame()
	require.NoError(t, host.Drag("Physics", "speed", 4.4))
	assert.Equal(t, 4, speed.Show(host, "Physics"))
}

func TestWindow_MixedItems(t *testing.T) {
	panel := tweak.New()
	host := memory.New()
	g := tweak.MustGroup(panel, "hud", position{Top: 1})
	v := tweak.MustVar(panel, "zoom", 1.5)

	tweak.Window(host, "Debug", g, v, nil)
	host.EndFrame()

	w, ok := host.Frame().Window("Debug")
	require.True(t, ok)
	require.Len(t, w.Rows, 3)
	assert.Equal(t, "left", w.Rows[0].Label)
	assert.Equal(t, "top", w.Rows[1].Label)
	assert.Equal(t, "zoom", w.Rows[2].Label)
}

func TestGroup_MutualExclusion(t *testing.T) {
	type pair struct {
		A int
		B int
	}

	panel := tweak.New()
	g := tweak.MustGroup(panel, "pair", pair{})

	const workers, rounds = 8, 200
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				v := g.Show(testutils.Incrementer{})
				if v.A != v.B {
					t.Errorf("torn record: %+v", v)
					return
				}
				_ = g.Value()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, pair{A: workers * rounds, B: workers * rounds}, g.Value())
}

func TestVar_IndependentLocks(t *testing.T) {
	panel := tweak.New()
	a := tweak.MustVar(panel, "a", 0)
	b := tweak.MustVar(panel, "b", 0)

	host := testutils.NewGate()
	done := make(chan int)
	go func() {
		done <- a.Show(host, "Debug")
	}()
	<-host.Entered

	// a is held mid-render; b is locked on its own and stays usable, so a
	// reader can see b updated while a is not yet.
	assert.Equal(t, 1, b.Show(testutils.Incrementer{}, "Debug"))
	assert.Equal(t, 1, b.Value())

	close(host.Release)
	assert.Equal(t, 1, <-done)
	assert.Equal(t, 1, a.Value())
}

func TestGroup_Poisoning(t *testing.T) {
	var poisoned []domain.Key
	panel := tweak.New(tweak.WithHooks(domain.Hooks{
		OnPoison: func(k domain.Key, _ any) { poisoned = append(poisoned, k) },
	}))
	g := tweak.MustGroup(panel, "hud", position{})

	assert.PanicsWithValue(t, "boom", func() { g.Show(testutils.Panicky{Value: "boom"}) })
	assert.Equal(t, []domain.Key{domain.GroupKey("hud")}, poisoned)

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected an error panic, got %v", r)
		assert.ErrorIs(t, err, domain.ErrPoisoned)

		var pe *domain.PoisonError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "boom", pe.Cause)
	}()
	g.Value()
}

func TestPanel_Metrics(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	panel := tweak.New(tweak.WithMetrics(m))
	host := memory.New()
	g := tweak.MustGroup(panel, "hud", position{})

	g.Show(host)
	host.EndFrame()
	require.NoError(t, host.Drag("hud", "top", 2))
	g.Show(host)

	assert.Same(t, m, panel.Metrics())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Cells))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Renders.WithLabelValues("group:hud")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Edits.WithLabelValues("group:hud", "top")))
}

func TestPanel_Snapshot(t *testing.T) {
	panel := tweak.New()
	tweak.MustGroup(panel, "hud", position{Top: 1})
	tweak.MustVar(panel, "zoom", 2)

	assert.Equal(t, []domain.Variable{
		{Key: "group:hud", Name: "left", Kind: domain.KindFloat32, Value: 0},
		{Key: "group:hud", Name: "top", Kind: domain.KindFloat32, Value: 1},
		{Key: "var:zoom", Name: "zoom", Kind: domain.KindInt, Value: 2},
	}, panel.Snapshot())
}

func TestDefault(t *testing.T) {
	assert.Same(t, tweak.Default(), tweak.Default())

	v := tweak.MustVar(nil, "default_panel_probe", 1)
	assert.Equal(t, 1, v.Value())
	_, ok := tweak.Default().Registry().Get(domain.VarKey("default_panel_probe"))
	assert.True(t, ok)
}
