package domain

// Hooks defines callbacks for adapter observability. All fields are
// optional. Callbacks may fire from the goroutine that settles an
// invocation and must not block.
type Hooks struct {
	// OnInvoke fires when a new invocation is issued for a property.
	OnInvoke func(property, key string)

	// OnResolve fires when the latest invocation for a property resolves.
	OnResolve func(property, key string)

	// OnReject fires when the latest invocation for a property rejects.
	OnReject func(property, key string, err error)

	// OnStaleDrop fires when a superseded invocation settles and its
	// result is discarded.
	OnStaleDrop func(property, key string)

	// OnCacheHit fires when a cached value is rendered while a fresh
	// invocation is in flight.
	OnCacheHit func(property, key string)
}
