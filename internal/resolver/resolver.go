// Package resolver implements the mapping-resolution phase of the
// binding cycle: it turns the current props plus a mapping specification
// into a deterministic set of invocation descriptors.
//
// Resolution is side-effect free. The same function serves both the
// compare-only gate (key computation without invocation) and the full
// reconcile, which hands the descriptors to the tracker.
package resolver

import (
	"sort"

	"github.com/wirekit/wire/internal/keys"
	"github.com/wirekit/wire/pkg/domain"
)

// Resolve produces one descriptor per bound property, sorted by property
// name so downstream iteration is reproducible.
//
// Binding values translate as follows:
//   - []any{target, args...}: invocation of target with args
//   - string, in a static mapping: invocation of that method path with
//     no arguments
//   - anything else: literal pass-through, no invocation
//
// Computed mappings invoke only through sequences; every non-sequence
// value they produce, strings included, passes through as a literal.
//
// For static mappings, string arguments naming a current property are
// replaced with that property's value before keys are derived, so a
// changed property produces a changed key.
func Resolve(props domain.Props, mapping domain.Mapping, namespace string) []domain.Descriptor {
	if mapping == nil {
		return nil
	}
	bindings := mapping.Bindings(props)
	if len(bindings) == 0 {
		return nil
	}
	substitute := mapping.Substitutes()

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	descs := make([]domain.Descriptor, 0, len(names))
	for _, name := range names {
		descs = append(descs, describe(name, bindings[name], props, substitute, namespace))
	}
	return descs
}

// Keys computes the property-to-key set for props without issuing any
// invocation. This is the compare-only mode used by the property-update
// gate.
func Keys(props domain.Props, mapping domain.Mapping, namespace string) map[string]string {
	descs := Resolve(props, mapping, namespace)
	out := make(map[string]string, len(descs))
	for _, d := range descs {
		out[d.Property] = d.Key
	}
	return out
}

func describe(name string, binding any, props domain.Props, substitute bool, namespace string) domain.Descriptor {
	switch v := binding.(type) {
	case []any:
		var target any
		if len(v) > 0 {
			target = v[0]
		}
		args := make([]any, 0, len(v))
		if len(v) > 1 {
			args = append(args, v[1:]...)
		}
		if substitute {
			args = substituteArgs(args, props)
		}
		return domain.Descriptor{
			Property: name,
			Target:   target,
			Args:     args,
			Key:      keys.Derive(namespace, target, args),
		}
	case string:
		// Computed mappings invoke only through sequences; a bare string
		// from one is data, not a method path.
		if substitute {
			return domain.Descriptor{
				Property: name,
				Target:   v,
				Key:      keys.Derive(namespace, v, nil),
			}
		}
	}

	return domain.Descriptor{
		Property: name,
		Target:   binding,
		Literal:  true,
		Key:      keys.Derive(namespace, binding, nil),
	}
}

// substituteArgs applies the static-mapping shorthand: a string argument
// equal to a current property name stands for that property's value.
func substituteArgs(args []any, props domain.Props) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = arg
		if s, ok := arg.(string); ok {
			if v, exists := props[s]; exists {
				out[i] = v
			}
		}
	}
	return out
}
