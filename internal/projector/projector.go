// Package projector assembles the final props delivered to a wrapped
// component and implements the shallow-equality barrier that gates
// re-renders.
package projector

import (
	"reflect"

	"github.com/wirekit/wire/pkg/domain"
)

// Merge layers the final props in explicit precedence order: the refresh
// operation, then auxiliary props captured at construction, then the
// incoming props, then the rendered state. Later layers win on key
// collision.
//
// The reserved pending/rejected keys are controlled by the adapter:
// they are present exactly when non-empty, shadowing any incoming props
// of the same name.
func Merge(refresh domain.RefreshFunc, aux, incoming domain.Props, st domain.Rendered) domain.Props {
	out := make(domain.Props, len(aux)+len(incoming)+len(st.Values)+3)

	if refresh != nil {
		out[domain.PropRefresh] = refresh
	}
	for k, v := range aux {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	for k, v := range st.Values {
		out[k] = v
	}

	if len(st.Pending) > 0 {
		pending := make(map[string]bool, len(st.Pending))
		for k, v := range st.Pending {
			pending[k] = v
		}
		out[domain.PropPending] = pending
	} else {
		delete(out, domain.PropPending)
	}

	if len(st.Rejected) > 0 {
		rejected := make(map[string]error, len(st.Rejected))
		for k, v := range st.Rejected {
			rejected[k] = v
		}
		out[domain.PropRejected] = rejected
	} else {
		delete(out, domain.PropRejected)
	}

	return out
}

// ShallowEqual reports whether two prop sets hold the same keys with
// equal values, comparing one level deep. Reference types compare by
// identity, never by content.
func ShallowEqual(a, b domain.Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !equalValue(av, bv) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	default:
		if !av.Comparable() {
			return false
		}
		return a == b
	}
}
