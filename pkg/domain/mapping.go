package domain

// Mapping declares which model invocations feed which properties.
//
// Each binding value is one of:
//   - a string: a dot-separated method path into the model, no arguments
//   - a []any: the first element is the method path (or a callable), the
//     rest are call arguments
//   - any other value: a literal passed through to the component untouched
type Mapping interface {
	// Bindings produces the property-name to binding-value set for the
	// given props. It must be side-effect free: the adapter calls it on
	// every property update, including in compare-only mode.
	Bindings(props Props) map[string]any

	// Substitutes reports whether string arguments equal to a current
	// property name are replaced by that property's value before key
	// derivation and invocation. This shorthand applies only to static
	// mappings; computed mappings already close over the props.
	Substitutes() bool
}

// Static is a declarative mapping. String arguments naming a current
// property are substituted with that property's value.
//
// Note: an argument that is *meant* to be the literal string matching a
// property name cannot be expressed with Static; use Dynamic instead.
type Static map[string]any

// Bindings returns the mapping itself; static declarations do not depend
// on props beyond argument substitution.
func (m Static) Bindings(Props) map[string]any { return m }

// Substitutes is true for static mappings.
func (Static) Substitutes() bool { return true }

// Dynamic computes bindings from the current props on every update.
// Arguments are used verbatim, no substitution.
type Dynamic func(props Props) map[string]any

// Bindings invokes the mapping function.
func (m Dynamic) Bindings(props Props) map[string]any {
	if m == nil {
		return nil
	}
	return m(props)
}

// Substitutes is false for dynamic mappings.
func (Dynamic) Substitutes() bool { return false }

// Descriptor is one resolved binding: the invocation target for a single
// property, its call arguments after substitution, and the cache key
// derived from (namespace, target, args).
type Descriptor struct {
	Property string
	// Target is a dot-separated method path, a callable, or a literal.
	Target any
	Args   []any
	// Literal marks a pass-through value that requires no invocation.
	Literal bool
	Key     string
}
