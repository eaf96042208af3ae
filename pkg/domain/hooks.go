package domain

// CellEvent describes a storage cell the moment it is initialized.
type CellEvent struct {
	Key    Key
	Labels []string
}

// EditEvent describes a value changed by a drag control.
type EditEvent struct {
	Key   Key
	Label string
	Old   float64
	New   float64
}

// Hooks defines callbacks for registry observability.
// Callbacks run on the rendering goroutine; OnRender and OnEdit run while the
// cell lock is held and must not call back into the registry.
type Hooks struct {
	OnInit   func(*CellEvent)
	OnRender func(Key)
	OnEdit   func(*EditEvent)
	OnPoison func(Key, any)
}

// ChainHooks combines several hook sets; callbacks fire in argument order.
func ChainHooks(all ...Hooks) Hooks {
	var out Hooks
	for _, h := range all {
		out.OnInit = chain1(out.OnInit, h.OnInit)
		out.OnRender = chain1(out.OnRender, h.OnRender)
		out.OnEdit = chain1(out.OnEdit, h.OnEdit)
		if prev, next := out.OnPoison, h.OnPoison; next != nil {
			if prev == nil {
				out.OnPoison = next
			} else {
				out.OnPoison = func(k Key, cause any) {
					prev(k, cause)
					next(k, cause)
				}
			}
		}
	}
	return out
}

func chain1[E any](prev, next func(E)) func(E) {
	if next == nil {
		return prev
	}
	if prev == nil {
		return next
	}
	return func(e E) {
		prev(e)
		next(e)
	}
}

// PoisonPolicy decides what happens when poisoned storage is acquired again.
type PoisonPolicy int

const (
	// PoisonPanic panics with a *PoisonError. Unless recovered this terminates the process.
	PoisonPanic PoisonPolicy = iota
	// PoisonExit logs the failure and exits the process with status 2.
	PoisonExit
)
