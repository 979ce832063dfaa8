// Package tracker implements the invocation-tracking phase of the
// binding cycle: deciding which descriptors need a fresh invocation,
// issuing the calls, and folding their settlements into the rendered
// state.
//
// Correctness under temporally overlapping invocations rests on one
// mechanism: every issued invocation captures a fresh identifier, and a
// settlement only commits if its identifier is still the current one for
// its property. Superseded settlements are dropped without touching
// state.
package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/wirekit/wire/internal/modelpath"
	"github.com/wirekit/wire/internal/resolver"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

// Config carries the tracker's collaborators. Model, Mapping, and
// Namespace are fixed for the tracker's lifetime.
type Config struct {
	Namespace string
	Model     any
	Mapping   domain.Mapping
	Cache     ports.ValueCache
	// Inflight shares pending operations between trackers of one binder
	// configuration: a key already in flight is subscribed to instead of
	// re-invoked. Optional; nil disables sharing.
	Inflight *Inflight
	Hooks    domain.Hooks
	Logger   *slog.Logger
	// OnCommit runs after an asynchronous settlement mutates rendered
	// state, typically scheduling a host re-render. Synchronous commits
	// during Reconcile do not fire it; the caller re-renders once after
	// Reconcile returns.
	OnCommit func()
}

// Tracker owns the per-instance invocation state: the last-issued key
// and invocation identifier per property, and the rendered state the
// projector merges into the wrapped component's props.
type Tracker struct {
	cfg Config

	mu          sync.Mutex
	currentKeys map[string]string
	tracking    map[string]uint64
	counter     uint64
	version     uint64
	rendered    domain.Rendered
}

// New creates a tracker with empty state.
func New(cfg Config) *Tracker {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{
		cfg:         cfg,
		currentKeys: make(map[string]string),
		tracking:    make(map[string]uint64),
		rendered:    domain.NewRendered(),
	}
}

// Keys computes the property-to-key set for props without side effects.
func (t *Tracker) Keys(props domain.Props) map[string]string {
	return resolver.Keys(props, t.cfg.Mapping, t.cfg.Namespace)
}

// KeysEqual reports whether every computed key matches the key of the
// property's last-issued invocation.
func (t *Tracker) KeysEqual(computed map[string]string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for prop, key := range computed {
		if t.currentKeys[prop] != key {
			return false
		}
	}
	return true
}

// Version increases on every rendered-state mutation. The adapter's
// shallow-equality barrier uses it to detect state transitions without
// diffing the maps.
func (t *Tracker) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Snapshot returns a copy of the rendered state.
func (t *Tracker) Snapshot() domain.Rendered {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rendered.Clone()
}

// CurrentKeys returns a copy of the last-issued key per property.
func (t *Tracker) CurrentKeys() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.currentKeys))
	for k, v := range t.currentKeys {
		out[k] = v
	}
	return out
}

// Reconcile resolves descriptors for props and issues invocations where
// the descriptor key changed, or unconditionally when force is set.
// It returns the full key set computed this cycle.
//
// An unresolvable method path or an argument/signature mismatch is a
// configuration error, returned synchronously; it is never folded into
// the rejected set.
func (t *Tracker) Reconcile(ctx context.Context, props domain.Props, force bool) (map[string]string, error) {
	descs := resolver.Resolve(props, t.cfg.Mapping, t.cfg.Namespace)
	cycleKeys := make(map[string]string, len(descs))

	for _, d := range descs {
		cycleKeys[d.Property] = d.Key

		t.mu.Lock()
		prev, seen := t.currentKeys[d.Property]
		if !force && seen && prev == d.Key {
			// Central optimization: an unchanged key means the same
			// invocation, so nothing is issued and nothing re-renders.
			t.mu.Unlock()
			continue
		}
		t.currentKeys[d.Property] = d.Key
		t.mu.Unlock()

		if err := t.invoke(ctx, d, force); err != nil {
			return nil, err
		}
	}

	return cycleKeys, nil
}

func (t *Tracker) invoke(ctx context.Context, d domain.Descriptor, force bool) error {
	if d.Literal {
		t.commitImmediate(d.Property, d.Target)
		return nil
	}

	// An operation another tracker already has pending for this exact
	// key is reused, not re-invoked. Forced refreshes always call the
	// model.
	if !force && t.cfg.Inflight != nil {
		if aw, ok := t.cfg.Inflight.Lookup(d.Key); ok {
			t.issue(ctx, d.Property, d.Key, aw)
			return nil
		}
	}

	fn := d.Target
	if path, ok := d.Target.(string); ok {
		resolved, err := modelpath.Lookup(t.cfg.Model, path)
		if err != nil {
			return &domain.ConfigError{Property: d.Property, Path: path, Err: err}
		}
		fn = resolved
	} else if rv := reflect.ValueOf(d.Target); !rv.IsValid() || rv.Kind() != reflect.Func {
		// A non-string, non-callable target inside a sequence is used
		// directly as the resolved value.
		t.commitImmediate(d.Property, d.Target)
		return nil
	}

	value, err := modelpath.Call(ctx, fn, d.Args)
	if err != nil {
		var shape *modelpath.ShapeError
		if errors.As(err, &shape) {
			return &domain.ConfigError{Property: d.Property, Path: pathOf(d), Err: err}
		}
		// The method itself failed synchronously: a rejection, not a
		// wiring mistake.
		t.commitRejection(ctx, d.Property, d.Key, err)
		return nil
	}

	if aw, ok := value.(domain.Awaitable); ok {
		if t.cfg.Inflight != nil {
			// A forced refresh replaces the shared entry, so instances
			// arriving later latch onto the fresh call.
			aw = t.cfg.Inflight.Register(d.Key, aw, force)
		}
		t.issue(ctx, d.Property, d.Key, aw)
		return nil
	}

	t.commitImmediate(d.Property, value)
	return nil
}

func pathOf(d domain.Descriptor) string {
	if path, ok := d.Target.(string); ok {
		return path
	}
	return "<callable>"
}

// issue starts tracking an asynchronous invocation. The fresh identifier
// captured here is the sole mechanism that discards stale completions.
func (t *Tracker) issue(ctx context.Context, prop, key string, aw domain.Awaitable) {
	cached, hit := t.cacheGet(ctx, key)

	t.mu.Lock()
	t.counter++
	id := t.counter
	t.tracking[prop] = id
	t.rendered.Pending[prop] = true
	// A new attempt supersedes a prior rejection.
	delete(t.rendered.Rejected, prop)
	if hit {
		// Render the cached value immediately while the fresh call is
		// in flight; pending stays set.
		t.rendered.Values[prop] = cached
	}
	t.version++
	t.mu.Unlock()

	if hit && t.cfg.Hooks.OnCacheHit != nil {
		t.cfg.Hooks.OnCacheHit(prop, key)
	}
	if t.cfg.Hooks.OnInvoke != nil {
		t.cfg.Hooks.OnInvoke(prop, key)
	}

	// Subscribe without holding the lock: an already-settled awaitable
	// fires the callback synchronously on this goroutine.
	aw.Subscribe(func(value any, err error) {
		t.settle(prop, key, id, value, err)
	})
}

// settle commits one settlement, gated by identifier match. Any
// settlement whose identifier is no longer current is stale and dropped
// silently.
func (t *Tracker) settle(prop, key string, id uint64, value any, err error) {
	// Successful results are written to the shared cache even if this
	// invocation was superseded: the value is valid for its key.
	if err == nil {
		t.cachePut(context.Background(), key, value)
	}

	var fallback any
	var hasFallback bool
	if err != nil {
		fallback, hasFallback = t.cacheGet(context.Background(), key)
	}

	t.mu.Lock()
	if t.tracking[prop] != id {
		t.mu.Unlock()
		if t.cfg.Hooks.OnStaleDrop != nil {
			t.cfg.Hooks.OnStaleDrop(prop, key)
		}
		return
	}

	if err == nil {
		t.rendered.Values[prop] = value
	} else {
		t.rendered.Rejected[prop] = err
		if hasFallback {
			// Stale-while-revalidate-on-error: keep showing the last
			// good value alongside the rejection.
			t.rendered.Values[prop] = fallback
		}
	}
	delete(t.rendered.Pending, prop)
	t.version++
	t.mu.Unlock()

	if err == nil {
		if t.cfg.Hooks.OnResolve != nil {
			t.cfg.Hooks.OnResolve(prop, key)
		}
	} else if t.cfg.Hooks.OnReject != nil {
		t.cfg.Hooks.OnReject(prop, key, err)
	}

	if t.cfg.OnCommit != nil {
		t.cfg.OnCommit()
	}
}

// commitImmediate sets a synchronously resolved value, bypassing the
// pending and rejected bookkeeping. The identifier still advances so
// that settlements of older invocations for the property become stale.
func (t *Tracker) commitImmediate(prop string, value any) {
	t.mu.Lock()
	t.counter++
	t.tracking[prop] = t.counter
	t.rendered.Values[prop] = value
	delete(t.rendered.Pending, prop)
	delete(t.rendered.Rejected, prop)
	t.version++
	t.mu.Unlock()
}

// commitRejection records a synchronous method failure, with the cached
// value as a fallback display value when one exists.
func (t *Tracker) commitRejection(ctx context.Context, prop, key string, err error) {
	fallback, hasFallback := t.cacheGet(ctx, key)

	t.mu.Lock()
	t.counter++
	t.tracking[prop] = t.counter
	t.rendered.Rejected[prop] = err
	if hasFallback {
		t.rendered.Values[prop] = fallback
	}
	delete(t.rendered.Pending, prop)
	t.version++
	t.mu.Unlock()

	if t.cfg.Hooks.OnReject != nil {
		t.cfg.Hooks.OnReject(prop, key, err)
	}
}

func (t *Tracker) cacheGet(ctx context.Context, key string) (any, bool) {
	if t.cfg.Cache == nil {
		return nil, false
	}
	value, ok, err := t.cfg.Cache.Get(ctx, key)
	if err != nil {
		t.cfg.Logger.Warn("value cache get failed", "key", key, "err", err)
		return nil, false
	}
	return value, ok
}

func (t *Tracker) cachePut(ctx context.Context, key string, value any) {
	if t.cfg.Cache == nil {
		return
	}
	if err := t.cfg.Cache.Put(ctx, key, value); err != nil {
		t.cfg.Logger.Warn("value cache put failed", "key", key, "err", err)
	}
}
