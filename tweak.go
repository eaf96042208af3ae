package tweak

import (
	"log/slog"
	"sync"

	"github.com/aretw0/tweak/internal/logging"
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/observability"
	"github.com/aretw0/tweak/pkg/registry"
)

// Panel owns the storage of every tweak variable declared through it.
// Most programs use the process-wide Default panel; tests and embedders can
// create isolated ones with New.
type Panel struct {
	registry *registry.Registry
	logger   *slog.Logger
	metrics  *observability.Metrics
}

type options struct {
	logger  *slog.Logger
	hooks   domain.Hooks
	policy  domain.PoisonPolicy
	metrics *observability.Metrics
}

// Option defines a functional option for configuring a Panel.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithPoisonPolicy selects how acquiring storage poisoned by a panicking
// render fails. The default, domain.PoisonPanic, panics with a *domain.PoisonError.
func WithPoisonPolicy(policy domain.PoisonPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithMetrics records cell, render and edit counts into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates a Panel with its own, empty registry.
func New(opts ...Option) *Panel {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	hooks := o.hooks
	if o.metrics != nil {
		hooks = domain.ChainHooks(o.metrics.Hooks(), hooks)
	}

	return &Panel{
		registry: registry.NewRegistry(
			registry.WithHooks(hooks),
			registry.WithPoisonPolicy(o.policy),
			registry.WithLogger(o.logger),
		),
		logger:  o.logger,
		metrics: o.metrics,
	}
}

var defaultPanel = sync.OnceValue(func() *Panel {
	return New()
})

// Default returns the process-wide panel. It is created on first use and
// lives until the process exits; it is never replaced.
func Default() *Panel {
	return defaultPanel()
}

// Registry returns the underlying storage registry.
func (p *Panel) Registry() *registry.Registry {
	return p.registry
}

// Metrics returns the metrics the panel records into, or nil.
func (p *Panel) Metrics() *observability.Metrics {
	return p.metrics
}

// Snapshot returns the current value of every declared variable.
func (p *Panel) Snapshot() []domain.Variable {
	return p.registry.Snapshot()
}

func orDefault(p *Panel) *Panel {
	if p == nil {
		return Default()
	}
	return p
}
