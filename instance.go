package wire

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/wirekit/wire/internal/projector"
	"github.com/wirekit/wire/internal/tracker"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

// New creates an adapter instance for one component use.
//
// The model is selected from env by the binder's namespace, and the
// model-to-props transform runs here, once. The host drives the
// instance through its lifecycle hooks:
//
//  1. Mount performs the initial reconcile before the first render.
//  2. ReceiveProps gates and reconciles on every property update.
//  3. ShouldUpdate implements the shallow-equality re-render barrier.
//  4. Render produces the wrapped component's output; Render(nil)
//     renders with the current props, e.g. after an Invalidate.
//
// Asynchronous settlements call host.Invalidate to request a re-render;
// the host then consults ShouldUpdate and calls Render.
func (bd *Bound) New(env domain.Env, initial domain.Props, host ports.Host) *Instance {
	b := bd.binder
	model := env.Model(b.namespace)

	var aux domain.Props
	if b.modelToProps != nil {
		aux = b.modelToProps(model, initial)
	}

	if host == nil {
		host = ports.NopHost{}
	}

	inst := &Instance{
		id:        uuid.NewString(),
		binder:    b,
		component: bd.component,
		host:      host,
		props:     initial.Clone(),
		aux:       aux,
	}
	inst.tracker = tracker.New(tracker.Config{
		Namespace: b.namespace,
		Model:     model,
		Mapping:   b.mapping,
		Cache:     b.cache,
		Inflight:  b.inflight,
		Hooks:     b.hooks,
		Logger:    b.logger,
		OnCommit:  host.Invalidate,
	})

	b.register(inst)
	return inst
}

// Instance is one live adapter component. It owns the per-instance
// invocation state and projects the merged props into the wrapped
// component on render.
type Instance struct {
	id        string
	binder    *Binder
	component ports.Component
	host      ports.Host
	tracker   *tracker.Tracker

	mu           sync.Mutex
	props        domain.Props
	aux          domain.Props
	lastProps    domain.Props
	lastVersion  uint64
	renderedOnce bool
}

// ID identifies the instance in inspection surfaces.
func (i *Instance) ID() string { return i.id }

// Mount performs the initial reconcile. Call it before the first
// render. A non-nil error is a configuration error.
func (i *Instance) Mount(ctx context.Context) error {
	i.mu.Lock()
	props := i.props.Clone()
	i.mu.Unlock()

	_, err := i.tracker.Reconcile(ctx, props, false)
	return err
}

// ReceiveProps ingests a property update. When the computed invocation
// keys are unchanged and the props are shallowly equal, the update is a
// no-op: no reconcile, and ShouldUpdate stays false. Otherwise the full
// reconcile runs against the new props.
func (i *Instance) ReceiveProps(ctx context.Context, next domain.Props) error {
	keys := i.tracker.Keys(next)

	i.mu.Lock()
	same := projector.ShallowEqual(i.props, next) && i.tracker.KeysEqual(keys)
	i.props = next.Clone()
	i.mu.Unlock()

	if same {
		return nil
	}

	_, err := i.tracker.Reconcile(ctx, next, false)
	return err
}

// ShouldUpdate reports whether a render would deliver props different
// from the previous render: the incoming props changed shallowly or the
// rendered state advanced. This is an optimization barrier only; it
// never suppresses a pending/rejected/value transition, because every
// such transition advances the tracker's version.
func (i *Instance) ShouldUpdate() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.renderedOnce {
		return true
	}
	if !projector.ShallowEqual(i.lastProps, i.props) {
		return true
	}
	return i.tracker.Version() != i.lastVersion
}

// Render produces the wrapped component's output with the merged props:
// refresh, then auxiliary props, then incoming props, then rendered
// state, later layers winning.
//
// Render implements ports.Component so instances stack: a non-nil props
// argument is ingested as a property update first (an outer adapter
// passing merged props down). Configuration errors on that path panic,
// matching their fatal, developer-facing nature; hosts driving the
// instance directly get them as errors from ReceiveProps instead.
// Render(nil) renders with the current props.
func (i *Instance) Render(props domain.Props) any {
	if props != nil {
		if err := i.ReceiveProps(context.Background(), props); err != nil {
			panic(err)
		}
	}

	i.mu.Lock()
	current := i.props.Clone()
	aux := i.aux
	i.mu.Unlock()

	version := i.tracker.Version()
	state := i.tracker.Snapshot()
	merged := projector.Merge(i.Refresh, aux, current, state)

	i.mu.Lock()
	i.lastProps = current
	i.lastVersion = version
	i.renderedOnce = true
	i.mu.Unlock()

	return i.component.Render(merged)
}

// Refresh re-issues every mapped invocation, ignoring cache-key
// equality. A successful result still overwrites the same cache entry.
func (i *Instance) Refresh(ctx context.Context) error {
	i.mu.Lock()
	props := i.props.Clone()
	i.mu.Unlock()

	if _, err := i.tracker.Reconcile(ctx, props, true); err != nil {
		return err
	}

	i.host.Invalidate()
	return nil
}

// Unwrap exposes the wrapped component, peeling one adapter layer.
// Use ports.Innermost to unwrap through stacked adapters.
func (i *Instance) Unwrap() ports.Component {
	return i.component
}

// State returns a copy of the current rendered state.
func (i *Instance) State() domain.Rendered {
	return i.tracker.Snapshot()
}

// Close unregisters the instance from its binder. In-flight
// invocations still run to completion; their settlements mutate only
// this instance's discarded state.
func (i *Instance) Close() {
	i.binder.unregister(i.id)
}

func (i *Instance) snapshot() InstanceSnapshot {
	state := i.tracker.Snapshot()

	pending := make([]string, 0, len(state.Pending))
	for prop := range state.Pending {
		pending = append(pending, prop)
	}
	sort.Strings(pending)

	rejected := make(map[string]string, len(state.Rejected))
	for prop, err := range state.Rejected {
		rejected[prop] = err.Error()
	}

	return InstanceSnapshot{
		ID:       i.id,
		Keys:     i.tracker.CurrentKeys(),
		Values:   state.Values,
		Pending:  pending,
		Rejected: rejected,
	}
}
