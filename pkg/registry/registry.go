package registry

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/tweak/internal/logging"
	"github.com/aretw0/tweak/pkg/domain"
)

// Factory allocates and initializes the storage of a new cell.
// It runs at most once per key, on the first lookup.
type Factory func() (*Storage, error)

// Registry maps keys to lazily created, lock-guarded storage cells.
// Cells are never removed: they live as long as the registry.
type Registry struct {
	mu    sync.RWMutex
	cells map[domain.Key]*Cell

	hooks  domain.Hooks
	policy domain.PoisonPolicy
	logger *slog.Logger
	exit   func(code int)
}

// Option configures the Registry.
type Option func(*Registry)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(r *Registry) {
		r.hooks = hooks
	}
}

// WithPoisonPolicy selects how acquiring poisoned storage fails.
func WithPoisonPolicy(policy domain.PoisonPolicy) Option {
	return func(r *Registry) {
		r.policy = policy
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		cells:  make(map[domain.Key]*Cell),
		logger: logging.NewNop(),
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the cell for key, creating it with factory on first use.
// The returned bool reports whether this call created the cell. A later lookup
// with a different storage type fails with domain.ErrTypeMismatch; the existing
// cell is left untouched.
func (r *Registry) Lookup(key domain.Key, typ reflect.Type, factory Factory) (*Cell, bool, error) {
	r.mu.RLock()
	cell, ok := r.cells[key]
	r.mu.RUnlock()
	if ok {
		return cell, false, cell.checkType(typ)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cell, ok := r.cells[key]; ok {
		return cell, false, cell.checkType(typ)
	}

	storage, err := factory()
	if err != nil {
		return nil, false, fmt.Errorf("declare %s: %w", key, err)
	}
	if storage.Type() != typ {
		return nil, false, fmt.Errorf("declare %s: %w: factory built %s, want %s", key, domain.ErrTypeMismatch, storage.Type(), typ)
	}

	cell = &Cell{key: key, storage: storage, reg: r}
	r.cells[key] = cell

	r.logger.Debug("Tweak cell initialized", "key", key.String(), "type", typ.String())
	if r.hooks.OnInit != nil {
		r.hooks.OnInit(&domain.CellEvent{Key: key, Labels: storage.Labels()})
	}
	return cell, true, nil
}

// Get returns an existing cell.
func (r *Registry) Get(key domain.Key) (*Cell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cell, ok := r.cells[key]
	return cell, ok
}

// Len returns the number of initialized cells.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cells)
}

// Keys returns the keys of every initialized cell, sorted.
func (r *Registry) Keys() []domain.Key {
	r.mu.RLock()
	keys := make([]domain.Key, 0, len(r.cells))
	for k := range r.cells {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Snapshot returns the current value of every variable, ordered by key then
// declaration order. Each cell is locked on its own: values of two different
// cells may come from different frames.
func (r *Registry) Snapshot() []domain.Variable {
	var vars []domain.Variable
	for _, key := range r.Keys() {
		cell, ok := r.Get(key)
		if !ok {
			continue
		}
		cell.With(func(s *Storage) {
			for _, f := range s.Fields() {
				vars = append(vars, domain.Variable{
					Key:   key.String(),
					Name:  f.Name(),
					Kind:  f.Kind(),
					Value: f.Float64(),
				})
			}
		})
	}
	return vars
}

// fail reports an acquisition of poisoned storage according to the policy.
func (r *Registry) fail(c *Cell) {
	err := &domain.PoisonError{Key: c.key, Cause: c.cause}
	if r.policy == domain.PoisonExit {
		r.logger.Error("Tweak storage poisoned, exiting", "key", c.key.String(), "err", err)
		r.exit(2)
	}
	panic(err)
}

// sortCells orders cells by key and drops duplicates so a group of cells is
// always locked in the same order.
func sortCells(cells []*Cell) []*Cell {
	ordered := make([]*Cell, 0, len(cells))
	seen := make(map[*Cell]bool, len(cells))
	for _, c := range cells {
		if c == nil || seen[c] {
			continue
		}
		seen[c] = true
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key.String() < ordered[j].key.String()
	})
	return ordered
}
