package tweak

import (
	"fmt"
	"reflect"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
	"github.com/aretw0/tweak/pkg/registry"
)

// Group is a record of tweak variables stored once per group identity.
// T must be a struct whose exported fields are integers or floats; each
// field becomes one labelled drag control (label: the `tweak` tag, or the
// field name in snake_case).
//
// Two groups with different identities never share storage, even when their
// records have fields of the same name.
type Group[T any] struct {
	id   string
	cell *registry.Cell
}

// DeclareGroup returns the group id of panel p (Default if nil), creating
// its storage from init on first use. Later declarations of the same id
// return the existing storage and ignore init. Declaring the same id with a
// different record type fails with domain.ErrTypeMismatch.
func DeclareGroup[T any](p *Panel, id string, init T) (*Group[T], error) {
	p = orDefault(p)
	if !domain.ValidIdentifier(id) {
		return nil, fmt.Errorf("declare group %q: %w", id, domain.ErrInvalidIdentifier)
	}

	cell, _, err := p.registry.Lookup(domain.GroupKey(id), reflect.TypeFor[T](), func() (*registry.Storage, error) {
		rec := new(T)
		*rec = init
		return registry.NewRecord(rec)
	})
	if err != nil {
		return nil, err
	}
	return &Group[T]{id: id, cell: cell}, nil
}

// MustGroup is like DeclareGroup but panics if the declaration is invalid.
func MustGroup[T any](p *Panel, id string, init T) *Group[T] {
	g, err := DeclareGroup(p, id, init)
	if err != nil {
		panic(err)
	}
	return g
}

// ID returns the group identity, also used as the window title.
func (g *Group[T]) ID() string {
	return g.id
}

// Show renders the group's window in ctx and returns the record as it stands
// after the controls ran, so an edit made during this frame is already visible.
// The group lock is held for the whole call.
func (g *Group[T]) Show(ctx ports.Context) T {
	var out T
	g.cell.Show(ctx, g.id, func(s *registry.Storage) {
		out = *s.Interface().(*T)
	})
	return out
}

// Value returns the current record without rendering.
func (g *Group[T]) Value() T {
	var out T
	g.cell.With(func(s *registry.Storage) {
		out = *s.Interface().(*T)
	})
	return out
}

func (g *Group[T]) tweakCell() *registry.Cell {
	return g.cell
}
