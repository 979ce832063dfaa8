// Package keys derives deterministic cache keys for model invocations.
//
// Two invocations are "the same" if and only if their keys are equal, so
// the derivation must be stable: equal namespace, target, and argument
// sequence always produce the same key.
package keys

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// sep is a unit separator, unlikely to occur in paths or namespaces.
const sep = "\x1f"

// Derive computes the cache key for the triple (namespace, target, args).
//
// Arguments are serialized with encoding/json, which emits map keys in
// sorted order, giving a canonical form for equal values. Arguments that
// cannot be serialized fall back to their Go-syntax representation; that
// keeps key derivation total at the cost of weaker equality for exotic
// values (two deep-equal unserializable values may compare unequal).
func Derive(namespace string, target any, args []any) string {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteString(sep)
	b.WriteString(targetToken(target))
	for _, arg := range args {
		b.WriteString(sep)
		b.WriteString(argToken(arg))
	}
	return b.String()
}

func targetToken(target any) string {
	switch v := target.(type) {
	case string:
		return v
	case nil:
		return "<nil>"
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Func {
		// Callables are identified by code pointer: the same function
		// literal yields the same key across cycles.
		return fmt.Sprintf("fn@%x", rv.Pointer())
	}
	return argToken(target)
}

func argToken(arg any) string {
	data, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%#v", arg)
	}
	return string(data)
}
