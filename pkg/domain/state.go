package domain

// Rendered is the adapter-owned state merged into the wrapped
// component's props: last-known values per property, the in-flight set,
// and the latest rejection per property.
//
// Invariant: a property appears in Rejected only if its latest
// invocation ended in rejection and no newer invocation for it has since
// started.
type Rendered struct {
	Values   map[string]any
	Pending  map[string]bool
	Rejected map[string]error
}

// NewRendered creates an empty rendered state.
func NewRendered() Rendered {
	return Rendered{
		Values:   make(map[string]any),
		Pending:  make(map[string]bool),
		Rejected: make(map[string]error),
	}
}

// Clone deep-copies the rendered state maps. Values themselves are
// shared; the adapter never mutates a resolved value.
func (r Rendered) Clone() Rendered {
	out := Rendered{
		Values:   make(map[string]any, len(r.Values)),
		Pending:  make(map[string]bool, len(r.Pending)),
		Rejected: make(map[string]error, len(r.Rejected)),
	}
	for k, v := range r.Values {
		out.Values[k] = v
	}
	for k, v := range r.Pending {
		out.Pending[k] = v
	}
	for k, v := range r.Rejected {
		out.Rejected[k] = v
	}
	return out
}
