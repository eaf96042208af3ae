/*
Package tweak declares numeric variables that can be adjusted at runtime from a
debug window, without recompiling.

A variable is stored once per process, initialized from its literal on first use
(later literals for the same identity are ignored), rendered every frame as a
labelled drag control inside a titled window, and read back after the control
ran so the caller always sees this frame's value.

# Groups

A Group keeps one record per group identity. The record is any struct of
integer or floating-point fields; the label of each control is the field's
`tweak` tag, or the field name in snake_case.

	type healthBar struct {
		Left float32
		Top  float32 `tweak:"top"`
	}

	var hb = tweak.MustGroup(nil, "health_bar", healthBar{Top: 1})

	func draw(ctx ports.Context) {
		v := hb.Show(ctx)
		drawBar(v.Left, v.Top)
	}

Groups with different identities never share storage.

# Variables

A Var is keyed by its name alone. Two windows that declare the same name and
type edit the same value; a different type is rejected with
domain.ErrTypeMismatch.

	left := tweak.MustVar(nil, "left", float32(0))
	tweak.Window(ctx, "Debug", left)
	x := left.Value()

# Poisoning

If a render panics while it holds a group or variable, the storage is marked
poisoned and the panic propagates. Every later access fails: by default with a
panic carrying a *domain.PoisonError, or by exiting the process when the panel
uses WithPoisonPolicy(domain.PoisonExit).

# Hosts

The GUI is reached through the ports.Context interface. The memory adapter is a
headless host used by tests and by the HTTP and MCP panels.
*/
package tweak
