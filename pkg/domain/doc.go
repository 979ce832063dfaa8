/*
Package domain contains the core model of the wire adapter.

It defines the fundamental entities of the data-binding cycle, such as
Props, Mappings, Descriptors, Futures, and the Rendered state. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Props: the property set flowing into and out of a bound component.
  - Env: the ambient tree-scoped configuration that hosts the model graph.
  - Mapping: a declarative (Static) or computed (Dynamic) binding of
    property names to model invocations.
  - Descriptor: one resolved binding, including its derived cache key.
  - Future: the default asynchronous result, settled exactly once.
  - Rendered: the values/pending/rejected state the adapter projects
    into the wrapped component.
*/
package domain
