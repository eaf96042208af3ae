package tweak

import (
	"github.com/aretw0/tweak/pkg/ports"
	"github.com/aretw0/tweak/pkg/registry"
)

// Tweakable is anything Window can render: a *Var or a *Group.
type Tweakable interface {
	tweakCell() *registry.Cell
}

// Window renders the rows of every item, in order, in one titled window.
// All items are locked for the duration of the call; read them afterwards
// with Value to get the post-edit values.
//
// Each item keeps its own lock, so a reader running concurrently with Window
// on another goroutine may observe some items edited and others not yet.
func Window(ctx ports.Context, title string, items ...Tweakable) {
	cells := make([]*registry.Cell, 0, len(items))
	for _, it := range items {
		if it != nil {
			cells = append(cells, it.tweakCell())
		}
	}
	registry.Hold(cells, func() {
		registry.Render(ctx, title, cells...)
	})
}
