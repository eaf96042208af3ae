package ports

import "github.com/aretw0/tweak/pkg/domain"

// Context is a host GUI drawing context. It is only valid for the current frame.
type Context interface {
	// Window opens (or reuses, by title) a window and runs body to fill it.
	// Hosts may skip body when the window is closed or collapsed.
	Window(title string, body func(UI))
}

// UI lays out widgets inside a window.
type UI interface {
	// Horizontal groups the widgets added by fn on one row.
	Horizontal(fn func(UI))

	// Label adds a text label.
	Label(text string)

	// DragValue adds a draggable numeric input bound to v.
	// It updates v in place when the user interacts with it and reports
	// whether the value changed during this frame.
	DragValue(v Value) bool
}

// Value is a numeric handle a drag control reads and writes.
type Value interface {
	Kind() domain.Kind

	// Float64 returns the current value.
	Float64() float64

	// SetFloat64 stores f converted to Kind (rounded and clamped).
	// NaN is ignored.
	SetFloat64(f float64)
}
