/*
Package ports defines the driven ports (interfaces) for the wire adapter.

These interfaces decouple the binding core from external implementations,
allowing the adapter to work with various cache backends and host
runtimes.

# Key Interfaces

  - Component: anything the adapter can wrap and render.
  - Host: the runtime capability used to schedule re-renders.
  - ValueCache: last-resolved-value storage shared across instances of
    one binder configuration.
  - Unwrapper: capability exposed by stacked adapters to reach the
    innermost wrapped component.
*/
package ports
