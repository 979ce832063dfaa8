// Package modelpath resolves dot-separated method paths against a model
// object graph and invokes the resulting callables reflectively.
//
// The model is an arbitrary user-supplied graph: nested string-keyed
// maps, structs, pointers, and funcs all participate. Path segments are
// matched case-sensitively first, then with an exported-name fallback
// ("getUsername" also finds method GetUsername), so declarative mappings
// can use the conventional lowerCamel spelling.
package modelpath

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ShapeError reports a structural problem with a binding: an
// unresolvable path, a non-callable target, or an argument list that
// does not fit the method signature. Shape errors are wiring mistakes
// and are surfaced synchronously, never as per-property rejections.
type ShapeError struct {
	Path string
	Err  error
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("path %q: %v", e.Path, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// Lookup walks a dot-separated path through the model graph and returns
// the value it lands on, typically a callable. A segment that cannot be
// resolved yields a *ShapeError.
func Lookup(model any, path string) (any, error) {
	current := model
	walked := ""
	for _, seg := range strings.Split(path, ".") {
		if walked == "" {
			walked = seg
		} else {
			walked = walked + "." + seg
		}
		next, err := step(current, seg)
		if err != nil {
			return nil, &ShapeError{Path: walked, Err: err}
		}
		current = next
	}
	return current, nil
}

func step(current any, seg string) (any, error) {
	if current == nil {
		return nil, fmt.Errorf("cannot descend into nil value")
	}

	rv := reflect.ValueOf(current)

	// Maps with string keys are the common model shape.
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		entry := rv.MapIndex(reflect.ValueOf(seg))
		if !entry.IsValid() {
			return nil, fmt.Errorf("no entry %q", seg)
		}
		return entry.Interface(), nil
	}

	// Methods are looked up on the value as given, so pointer-receiver
	// methods on a *T model resolve.
	for _, name := range []string{seg, exported(seg)} {
		if m := rv.MethodByName(name); m.IsValid() {
			return m.Interface(), nil
		}
	}

	elem := rv
	for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return nil, fmt.Errorf("cannot descend into nil value")
		}
		elem = elem.Elem()
	}

	if elem.Kind() == reflect.Struct {
		for _, name := range []string{seg, exported(seg)} {
			f := elem.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return f.Interface(), nil
			}
		}
		// Value-receiver set of an addressable copy was already covered
		// by MethodByName above; nothing else to try.
		return nil, fmt.Errorf("no field or method %q on %s", seg, elem.Type())
	}

	return nil, fmt.Errorf("cannot descend into %T with segment %q", current, seg)
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Call invokes fn with args, adapting to the function's signature:
//
//   - a leading context.Context parameter is filled from ctx
//   - arguments are converted to the parameter types where Go allows it
//   - a trailing error return becomes the call error
//   - a panic inside the method is recovered into a call error
//
// A mismatch between args and the signature is a *ShapeError; errors
// returned or panicked by the method itself are plain errors and map to
// per-property rejections.
func Call(ctx context.Context, fn any, args []any) (value any, err error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, &ShapeError{Err: fmt.Errorf("target %T is not callable", fn)}
	}
	ft := rv.Type()

	in := make([]reflect.Value, 0, ft.NumIn())
	params := ft.NumIn()
	offset := 0
	if params > 0 && ft.In(0) == ctxType {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
		offset = 1
	}

	want := params - offset
	if ft.IsVariadic() {
		if len(args) < want-1 {
			return nil, &ShapeError{Err: fmt.Errorf("got %d args, want at least %d", len(args), want-1)}
		}
	} else if len(args) != want {
		return nil, &ShapeError{Err: fmt.Errorf("got %d args, want %d", len(args), want)}
	}

	for idx, arg := range args {
		pt := paramType(ft, idx+offset)
		av, convErr := coerce(arg, pt)
		if convErr != nil {
			return nil, &ShapeError{Err: fmt.Errorf("arg %d: %w", idx, convErr)}
		}
		in = append(in, av)
	}

	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("model method panicked: %v", r)
		}
	}()

	outs := rv.Call(in)
	return splitResults(outs)
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

func coerce(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil not assignable to %s", pt)
	}
	av := reflect.ValueOf(arg)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	if av.Type().ConvertibleTo(pt) {
		return av.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%T not assignable to %s", arg, pt)
}

func splitResults(outs []reflect.Value) (any, error) {
	var value any
	var callErr error
	for i, out := range outs {
		if i == len(outs)-1 && out.Type().Implements(errType) {
			if !out.IsNil() {
				callErr = out.Interface().(error)
			}
			continue
		}
		if value == nil {
			value = out.Interface()
		}
	}
	return value, callErr
}
