package tweak

import (
	"fmt"
	"reflect"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
	"github.com/aretw0/tweak/pkg/registry"
)

// Var is a standalone tweak variable, stored once per name.
//
// Storage is keyed by the name alone: two windows that each declare a Var
// named "left" of the same type edit the same value. Declaring the name again
// with another type fails with domain.ErrTypeMismatch. Use a Group when
// isolation between windows matters.
type Var[N domain.Numeric] struct {
	name string
	cell *registry.Cell
}

// DeclareVar returns the variable name of panel p (Default if nil), creating
// it from init on first use. Later declarations ignore init.
func DeclareVar[N domain.Numeric](p *Panel, name string, init N) (*Var[N], error) {
	p = orDefault(p)
	if !domain.ValidIdentifier(name) {
		return nil, fmt.Errorf("declare var %q: %w", name, domain.ErrInvalidIdentifier)
	}

	cell, _, err := p.registry.Lookup(domain.VarKey(name), reflect.TypeFor[N](), func() (*registry.Storage, error) {
		v := new(N)
		*v = init
		return registry.NewScalar(name, v)
	})
	if err != nil {
		return nil, err
	}
	return &Var[N]{name: name, cell: cell}, nil
}

// MustVar is like DeclareVar but panics if the declaration is invalid.
func MustVar[N domain.Numeric](p *Panel, name string, init N) *Var[N] {
	v, err := DeclareVar(p, name, init)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the variable name, also its label.
func (v *Var[N]) Name() string {
	return v.name
}

// Value returns the current value.
func (v *Var[N]) Value() N {
	var out N
	v.cell.With(func(s *registry.Storage) {
		out = *s.Interface().(*N)
	})
	return out
}

// Show renders the variable alone in the titled window and returns its value
// after the control ran.
func (v *Var[N]) Show(ctx ports.Context, title string) N {
	var out N
	v.cell.Show(ctx, title, func(s *registry.Storage) {
		out = *s.Interface().(*N)
	})
	return out
}

func (v *Var[N]) tweakCell() *registry.Cell {
	return v.cell
}
