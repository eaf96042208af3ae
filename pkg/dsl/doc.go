/*
Package dsl declares tweak groups and variables at runtime, without a Go
record type.

It is the dynamic counterpart of pkg/codegen: the same declarations can be
compiled into Go source or built on the fly, for example from a declaration
file loaded by a tool.

	b := dsl.New()

	b.Group("health_bar").
		Float32("left", 0).
		Float32("top", 1)

	b.Vars("Physics").
		Int("speed", 3)

	windows, err := b.Build(panel)
	...
	for _, w := range windows {
		values := w.Show(ctx)
		_ = values["left"]
	}

Groups built here have an unnamed record type: declaring the same id again
through a Builder with the same variables reuses the storage, while a
tweak.Group of a named record type with that id fails with domain.ErrTypeMismatch.
*/
package dsl
