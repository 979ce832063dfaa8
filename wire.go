package wire

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/wirekit/wire/internal/tracker"
	"github.com/wirekit/wire/pkg/adapters/memory"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

// ModelToProps derives auxiliary props from the model. It runs once per
// instance at construction with the model and the initial props; it is
// deliberately not reactive to later prop changes.
type ModelToProps func(model any, initial domain.Props) domain.Props

// Option defines a functional option for configuring a Binder.
type Option func(*Binder)

// WithLogger sets a custom structured logger for the binder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// WithCache injects a custom value cache, e.g. the Redis adapter. The
// default is an unbounded in-memory cache.
func WithCache(cache ports.ValueCache) Option {
	return func(b *Binder) {
		b.cache = cache
	}
}

// WithCacheSize bounds the default in-memory cache to at most n entries
// with LRU eviction. Ignored when WithCache is also given.
func WithCacheSize(n int) Option {
	return func(b *Binder) {
		b.cacheSize = n
	}
}

// WithHooks registers observability hooks, e.g. prometheus counters
// from pkg/observability.
func WithHooks(hooks domain.Hooks) Option {
	return func(b *Binder) {
		b.hooks = hooks
	}
}

// Wire builds a Binder: one binding configuration consisting of a model
// namespace, a mapping specification, and an optional model-to-props
// transform.
//
// The shared value cache and the in-flight invocation registry are
// created here, so all component instances bound through the same
// Binder share resolved values and reuse each other's pending
// invocations, while unrelated configurations stay isolated.
func Wire(namespace string, mapping domain.Mapping, modelToProps ModelToProps, opts ...Option) *Binder {
	b := &Binder{
		namespace:    namespace,
		mapping:      mapping,
		modelToProps: modelToProps,
		inflight:     tracker.NewInflight(),
		instances:    make(map[string]*Instance),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if b.cache == nil {
		if b.cacheSize > 0 {
			lru, err := memory.NewLRU(b.cacheSize)
			if err == nil {
				b.cache = lru
			}
		}
		if b.cache == nil {
			b.cache = memory.NewCache()
		}
	}

	return b
}

// Binder is one adapter configuration. It hands out bound component
// factories and tracks its live instances for inspection.
type Binder struct {
	namespace    string
	mapping      domain.Mapping
	modelToProps ModelToProps
	cache        ports.ValueCache
	cacheSize    int
	inflight     *tracker.Inflight
	hooks        domain.Hooks
	logger       *slog.Logger

	mu        sync.RWMutex
	instances map[string]*Instance
}

// Bind wraps a component, producing the factory the host instantiates
// per component use.
func (b *Binder) Bind(component ports.Component) *Bound {
	return &Bound{binder: b, component: component}
}

// Cache returns the binder's shared value cache.
func (b *Binder) Cache() ports.ValueCache {
	return b.cache
}

func (b *Binder) register(inst *Instance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.instances[inst.id] = inst
}

func (b *Binder) unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.instances, id)
}

// InstanceSnapshot is a point-in-time view of one live instance,
// serializable for debugging surfaces.
type InstanceSnapshot struct {
	ID       string            `json:"id"`
	Keys     map[string]string `json:"keys"`
	Values   map[string]any    `json:"values"`
	Pending  []string          `json:"pending,omitempty"`
	Rejected map[string]string `json:"rejected,omitempty"`
}

// Snapshots returns a snapshot of every live instance, sorted by ID.
func (b *Binder) Snapshots() []InstanceSnapshot {
	b.mu.RLock()
	instances := make([]*Instance, 0, len(b.instances))
	for _, inst := range b.instances {
		instances = append(instances, inst)
	}
	b.mu.RUnlock()

	out := make([]InstanceSnapshot, 0, len(instances))
	for _, inst := range instances {
		out = append(out, inst.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Snapshot returns the snapshot for one instance ID.
func (b *Binder) Snapshot(id string) (InstanceSnapshot, bool) {
	b.mu.RLock()
	inst, ok := b.instances[id]
	b.mu.RUnlock()
	if !ok {
		return InstanceSnapshot{}, false
	}
	return inst.snapshot(), true
}

// Bound is a wrapped component type: the pairing of a Binder with one
// component, ready to be instantiated by the host.
type Bound struct {
	binder    *Binder
	component ports.Component
}

// Component returns the wrapped component.
func (bd *Bound) Component() ports.Component {
	return bd.component
}
