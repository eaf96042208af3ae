package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
)

// Cell is the lock-guarded storage of one group record or one variable.
type Cell struct {
	key     domain.Key
	storage *Storage
	reg     *Registry

	mu       sync.Mutex
	poisoned bool
	cause    any
}

// Key returns the registry key of the cell.
func (c *Cell) Key() domain.Key {
	return c.key
}

// Type returns the type of the guarded record or scalar.
func (c *Cell) Type() reflect.Type {
	return c.storage.Type()
}

// Storage returns the guarded storage. Use it only while the cell is held.
func (c *Cell) Storage() *Storage {
	return c.storage
}

// Poisoned reports whether a previous holder panicked.
func (c *Cell) Poisoned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poisoned
}

func (c *Cell) checkType(typ reflect.Type) error {
	if c.storage.Type() != typ {
		return fmt.Errorf("declare %s as %s: %w: already declared as %s", c.key, typ, domain.ErrTypeMismatch, c.storage.Type())
	}
	return nil
}

// With runs fn while holding the cell.
func (c *Cell) With(fn func(*Storage)) {
	Hold([]*Cell{c}, func() {
		fn(c.storage)
	})
}

// Show holds the cell, renders its window and then calls read, still holding
// the cell, so read observes any edit made by the widgets in this frame.
func (c *Cell) Show(ctx ports.Context, title string, read func(*Storage)) {
	Hold([]*Cell{c}, func() {
		Render(ctx, title, c)
		if read != nil {
			read(c.storage)
		}
	})
}

// Render opens the titled window and renders the rows of every cell in
// argument order, skipping repeats. The cells must be held.
func Render(ctx ports.Context, title string, cells ...*Cell) {
	unique := make([]*Cell, 0, len(cells))
	seen := make(map[*Cell]bool, len(cells))
	for _, c := range cells {
		if c == nil || seen[c] {
			continue
		}
		seen[c] = true
		unique = append(unique, c)
		c.rendered()
	}
	ctx.Window(title, func(ui ports.UI) {
		for _, c := range unique {
			c.RenderRows(ui)
		}
	})
}

// RenderRows adds one horizontal row (label, drag value) per variable.
// The cell must be held.
func (c *Cell) RenderRows(ui ports.UI) {
	for _, f := range c.storage.fields {
		ui.Horizontal(func(ui ports.UI) {
			ui.Label(f.name)
			old := f.Float64()
			if ui.DragValue(f) {
				c.edited(f, old)
			}
		})
	}
}

func (c *Cell) rendered() {
	if c.reg.hooks.OnRender != nil {
		c.reg.hooks.OnRender(c.key)
	}
}

func (c *Cell) edited(f *Field, old float64) {
	now := f.Float64()
	if now == old {
		return
	}
	c.reg.logger.Debug("Tweak value edited", "key", c.key.String(), "label", f.name, "old", old, "new", now)
	if c.reg.hooks.OnEdit != nil {
		c.reg.hooks.OnEdit(&domain.EditEvent{Key: c.key, Label: f.name, Old: old, New: now})
	}
}

// Hold locks every cell (in key order, duplicates ignored), runs fn, and
// unlocks on every exit path. If fn panics, all held cells are poisoned and
// the panic propagates. Holding a poisoned cell fails according to the owning
// registry's PoisonPolicy.
//
// Holding several cells at once makes their rows render together, but no
// read outside Hold spans them atomically.
func Hold(cells []*Cell, fn func()) {
	ordered := sortCells(cells)
	for i, c := range ordered {
		c.mu.Lock()
		if c.poisoned {
			for _, held := range ordered[:i+1] {
				held.mu.Unlock()
			}
			c.reg.fail(c)
			return
		}
	}

	completed := false
	defer func() {
		if completed {
			for _, c := range ordered {
				c.mu.Unlock()
			}
			return
		}

		// nil after runtime.Goexit; the cells are poisoned either way.
		cause := recover()
		for _, c := range ordered {
			c.poisoned = true
			c.cause = cause
			c.mu.Unlock()
		}
		for _, c := range ordered {
			c.reg.logger.Error("Tweak storage poisoned", "key", c.key.String(), "cause", fmt.Sprint(cause))
			if c.reg.hooks.OnPoison != nil {
				c.reg.hooks.OnPoison(c.key, cause)
			}
		}
		if cause != nil {
			panic(cause)
		}
	}()

	fn()
	completed = true
}
