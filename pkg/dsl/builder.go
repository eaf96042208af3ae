package dsl

import (
	"fmt"
	"go/token"
	"reflect"

	"github.com/aretw0/tweak"
	"github.com/aretw0/tweak/pkg/codegen"
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
	"github.com/aretw0/tweak/pkg/registry"
)

// Builder collects window declarations.
type Builder struct {
	windows map[string]*WindowBuilder
	order   []string
}

// New creates a new declaration builder.
func New() *Builder {
	return &Builder{
		windows: make(map[string]*WindowBuilder),
	}
}

// Group declares a group: one record stored under id, shown in the window titled id.
// If the group already exists, it returns the existing builder.
func (b *Builder) Group(id string) *WindowBuilder {
	return b.add(domain.ScopeGroup, id)
}

// Vars declares a window of standalone variables, each stored under its own name.
// If the window already exists, it returns the existing builder.
func (b *Builder) Vars(title string) *WindowBuilder {
	return b.add(domain.ScopeVariable, title)
}

func (b *Builder) add(scope domain.Scope, title string) *WindowBuilder {
	id := string(scope) + ":" + title
	if wb, ok := b.windows[id]; ok {
		return wb
	}
	wb := &WindowBuilder{scope: scope, title: title}
	b.windows[id] = wb
	b.order = append(b.order, id)
	return wb
}

// FromFile loads the declarations of a validated codegen file.
// Standalone vars go to the file's window.
func FromFile(f *codegen.File) (*Builder, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	b := New()
	for _, g := range f.Groups {
		wb := b.Group(g.Name)
		for _, v := range g.Vars {
			wb.Var(v.Name, v.Kind, v.Init)
		}
	}
	if len(f.Vars) > 0 {
		title := f.Window
		if title == "" {
			title = codegen.DefaultWindow
		}
		wb := b.Vars(title)
		for _, v := range f.Vars {
			wb.Var(v.Name, v.Kind, v.Init)
		}
	}
	return b, nil
}

// Build declares every window on panel (Default if nil), in declaration
// order. Storage that already exists is reused and keeps its values.
// All failures are reported together.
func (b *Builder) Build(panel *tweak.Panel) ([]*Window, error) {
	if panel == nil {
		panel = tweak.Default()
	}

	var errs []error
	windows := make([]*Window, 0, len(b.order))
	for _, id := range b.order {
		w, err := b.windows[id].build(panel.Registry())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		windows = append(windows, w)
	}
	if err := domain.Join(errs); err != nil {
		return nil, err
	}
	return windows, nil
}

// WindowBuilder provides a fluent API for declaring the variables of a window.
type WindowBuilder struct {
	scope domain.Scope
	title string
	vars  []varDecl
}

type varDecl struct {
	name string
	kind domain.Kind
	init string
}

// Var declares a variable from a literal initial value ("0.5", "0x10").
func (w *WindowBuilder) Var(name string, kind domain.Kind, init string) *WindowBuilder {
	w.vars = append(w.vars, varDecl{name: name, kind: kind, init: init})
	return w
}

// Float32 declares a float32 variable.
func (w *WindowBuilder) Float32(name string, init float32) *WindowBuilder {
	return w.Var(name, domain.KindFloat32, fmt.Sprint(init))
}

// Float64 declares a float64 variable.
func (w *WindowBuilder) Float64(name string, init float64) *WindowBuilder {
	return w.Var(name, domain.KindFloat64, fmt.Sprint(init))
}

// Int declares an int variable.
func (w *WindowBuilder) Int(name string, init int) *WindowBuilder {
	return w.Var(name, domain.KindInt, fmt.Sprint(init))
}

func (w *WindowBuilder) validate() ([]string, error) {
	var errs []error
	fail := func(key, reason string, sentinel error) {
		errs = append(errs, &domain.ValidationError{Key: key, Reason: reason, Err: sentinel})
	}

	if w.scope == domain.ScopeGroup && !domain.ValidIdentifier(w.title) {
		fail(w.title, fmt.Sprintf("group name %q is not an identifier", w.title), domain.ErrInvalidIdentifier)
	}
	if len(w.vars) == 0 {
		fail(w.title, "window declares no vars", domain.ErrEmptyGroup)
	}

	inits := make([]string, len(w.vars))
	fields := make(map[string]bool)
	for i, v := range w.vars {
		key := w.title + "." + v.name
		field := domain.CamelCase(v.name)
		switch {
		case !domain.ValidIdentifier(v.name) || !token.IsIdentifier(field) || !token.IsExported(field):
			fail(key, fmt.Sprintf("variable name %q is not an identifier", v.name), domain.ErrInvalidIdentifier)
		case fields[field]:
			fail(key, "variable declared twice", domain.ErrDuplicateIdentifier)
		default:
			fields[field] = true
		}

		if !v.kind.Valid() {
			fail(key, fmt.Sprintf("%s is not an integer or floating-point type", v.kind), domain.ErrUnsupportedType)
			continue
		}
		init := v.init
		if init == "" {
			init = "0"
		}
		lit, err := v.kind.FormatLiteral(init)
		if err != nil {
			fail(key, err.Error(), domain.ErrInvalidLiteral)
			continue
		}
		inits[i] = lit
	}
	return inits, domain.Join(errs)
}

func (w *WindowBuilder) build(reg *registry.Registry) (*Window, error) {
	inits, err := w.validate()
	if err != nil {
		return nil, err
	}

	out := &Window{Title: w.title}
	if w.scope == domain.ScopeGroup {
		typ := w.recordType()
		cell, _, err := reg.Lookup(domain.GroupKey(w.title), typ, func() (*registry.Storage, error) {
			s, err := registry.NewRecord(reflect.New(typ).Interface())
			if err != nil {
				return nil, err
			}
			for i, f := range s.Fields() {
				if err := f.SetLiteral(inits[i]); err != nil {
					return nil, err
				}
			}
			return s, nil
		})
		if err != nil {
			return nil, err
		}
		out.cells = []*registry.Cell{cell}
		return out, nil
	}

	var errs []error
	for i, v := range w.vars {
		cell, _, err := reg.Lookup(domain.VarKey(v.name), v.kind.Type(), func() (*registry.Storage, error) {
			s, err := registry.NewScalar(v.name, reflect.New(v.kind.Type()).Interface())
			if err != nil {
				return nil, err
			}
			if err := s.Fields()[0].SetLiteral(inits[i]); err != nil {
				return nil, err
			}
			return s, nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.cells = append(out.cells, cell)
	}
	if err := domain.Join(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// recordType builds the struct type a Go declaration of the same group would have.
func (w *WindowBuilder) recordType() reflect.Type {
	fields := make([]reflect.StructField, len(w.vars))
	for i, v := range w.vars {
		fields[i] = reflect.StructField{
			Name: domain.CamelCase(v.name),
			Type: v.kind.Type(),
			Tag:  reflect.StructTag(fmt.Sprintf(`%s:"%s"`, registry.TagName, v.name)),
		}
	}
	return reflect.StructOf(fields)
}

// Window is a declared group, or a window of standalone variables.
type Window struct {
	Title string
	cells []*registry.Cell
}

// Show renders the window and returns every value, by label, after this
// frame's edits.
func (w *Window) Show(ctx ports.Context) map[string]float64 {
	values := make(map[string]float64)
	registry.Hold(w.cells, func() {
		registry.Render(ctx, w.Title, w.cells...)
		w.read(values)
	})
	return values
}

// Values returns every value by label, without rendering.
func (w *Window) Values() map[string]float64 {
	values := make(map[string]float64)
	registry.Hold(w.cells, func() {
		w.read(values)
	})
	return values
}

// Keys returns the registry keys of the window's storage.
func (w *Window) Keys() []domain.Key {
	keys := make([]domain.Key, len(w.cells))
	for i, c := range w.cells {
		keys[i] = c.Key()
	}
	return keys
}

func (w *Window) read(values map[string]float64) {
	for _, c := range w.cells {
		for _, f := range c.Storage().Fields() {
			values[f.Name()] = f.Float64()
		}
	}
}
