package domain

import "context"

// Props is the property set delivered to a component. Values are
// host-defined; the adapter only requires shallow comparability by key.
type Props map[string]any

// Reserved property keys written by the adapter into the wrapped
// component's props. User-mapped properties with the same names are
// overridden by the adapter's own entries.
const (
	// PropPending maps in-flight property names to true. Absent when
	// nothing is in flight.
	PropPending = "pending"

	// PropRejected maps failed property names to their rejection error.
	// Absent when nothing is currently rejected.
	PropRejected = "rejected"

	// PropRefresh holds a RefreshFunc that re-issues every mapped
	// invocation, bypassing cache-key comparison.
	PropRefresh = "refresh"
)

// RefreshFunc forces a fresh reconcile of all mapped properties.
type RefreshFunc func(ctx context.Context) error

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Env is the ambient tree-scoped configuration propagated by the host
// runtime. It holds one model object graph per namespace.
type Env map[string]any

// Model selects the model for a namespace. An empty namespace selects
// the whole Env as the model, mirroring how an unnamed context consumer
// receives the entire context value.
func (e Env) Model(namespace string) any {
	if namespace == "" {
		return map[string]any(e)
	}
	return e[namespace]
}
