package ports

// Host is the runtime capability handed to an adapter instance at mount
// time. Invalidate schedules a re-render of the instance; the host
// decides when the render actually happens.
type Host interface {
	Invalidate()
}

// HostFunc adapts a plain function to a Host.
type HostFunc func()

func (f HostFunc) Invalidate() { f() }

// NopHost ignores invalidations. Useful for fire-and-forget bindings
// and tests that poll state directly.
type NopHost struct{}

func (NopHost) Invalidate() {}
