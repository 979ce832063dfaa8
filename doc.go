/*
Package wire is a data-binding adapter for tree-structured UI
components: it connects a component to asynchronous methods on a model
reachable through the host's ambient configuration, and keeps the
component's props synchronized with the latest resolved values, loading
status, and error status of those calls.

The adapter derives a set of named invocations from the component's
current props, issues them against the model, tracks each call's
completion independently, and merges resolved values, a pending set,
and a rejected set into the props delivered to the wrapped component.
On every property update it decides whether the derived invocation set
changed and whether to re-invoke.

# Key Properties

  - Redundant calls are skipped: an unchanged cache key means an
    unchanged invocation, regardless of unrelated prop churn.
  - Out-of-order completions are safe: a settlement superseded by a
    newer invocation for the same property is discarded.
  - Last good value survives failure: a rejection renders alongside the
    cached value for its key, when one exists.
  - Resolved values are shared across all instances of one binder
    configuration through a pluggable value cache.

# Usage

Build a binder once, bind it around a component, and let the host drive
the instance lifecycle:

	package main

	import (
		"context"
		"fmt"

		"github.com/wirekit/wire"
		"github.com/wirekit/wire/pkg/domain"
		"github.com/wirekit/wire/pkg/ports"
	)

	func main() {
		model := map[string]any{
			"getUsername": func() *domain.Future {
				return domain.Go(func() (any, error) {
					return "alice", nil
				})
			},
		}

		binder := wire.Wire("api", domain.Static{
			"username": "getUsername",
		}, nil)

		view := ports.ComponentFunc(func(props domain.Props) any {
			if pending, ok := props["pending"].(map[string]bool); ok && pending["username"] {
				return "loading..."
			}
			return fmt.Sprintf("hello, %v", props["username"])
		})

		inst := binder.Bind(view).New(domain.Env{"api": model}, domain.Props{}, nil)
		defer inst.Close()

		if err := inst.Mount(context.Background()); err != nil {
			panic(err)
		}
		fmt.Println(inst.Render(nil))
	}

Mappings are either declarative (domain.Static, with property-name
argument shorthand) or computed from props (domain.Dynamic). The value
cache defaults to in-memory and can be bounded (wire.WithCacheSize) or
replaced (wire.WithCache, e.g. the Redis adapter in pkg/adapters/redis).
*/
package wire
