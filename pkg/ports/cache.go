package ports

import "context"

// ValueCache stores the last successfully resolved value per cache key.
// One cache is shared across all component instances created from the
// same binder configuration. Entries are written only on successful
// resolution; eviction policy is implementation-defined.
type ValueCache interface {
	// Get retrieves the value for a key. The second return reports
	// whether the key was present.
	Get(ctx context.Context, key string) (any, bool, error)

	// Put stores the value for a key, overwriting any previous entry.
	Put(ctx context.Context, key string, value any) error
}
