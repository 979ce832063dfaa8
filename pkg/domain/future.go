package domain

import "sync"

// Awaitable is the capability implemented by asynchronous model results.
// A model method returning an Awaitable is tracked through the pending
// and rejected sets; any other return value is treated as immediately
// resolved.
type Awaitable interface {
	// Subscribe registers fn to run exactly once when the operation
	// settles. If the operation already settled, fn runs immediately on
	// the calling goroutine with the memoized terminal result.
	Subscribe(fn func(value any, err error))
}

// Future is the default Awaitable: a single-assignment asynchronous
// result. The first Resolve or Reject wins; later settlements are
// ignored. Safe for concurrent use.
type Future struct {
	mu      sync.Mutex
	settled bool
	value   any
	err     error
	subs    []func(any, error)
}

// NewFuture creates an unsettled future. Settle it with Resolve or
// Reject, typically from a goroutine owned by the model.
func NewFuture() *Future {
	return &Future{}
}

// Go runs fn on a new goroutine and returns a future settled with its
// result. A non-nil error rejects the future.
func Go(fn func() (any, error)) *Future {
	f := NewFuture()
	go func() {
		v, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolve fulfills the future. No-op if already settled.
func (f *Future) Resolve(value any) { f.settle(value, nil) }

// Reject fails the future. No-op if already settled or err is nil.
func (f *Future) Reject(err error) {
	if err == nil {
		return
	}
	f.settle(nil, err)
}

func (f *Future) settle(value any, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = value
	f.err = err
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()

	for _, fn := range subs {
		fn(value, err)
	}
}

// Subscribe registers fn for settlement. Late subscribers receive the
// memoized terminal result synchronously.
func (f *Future) Subscribe(fn func(value any, err error)) {
	f.mu.Lock()
	if !f.settled {
		f.subs = append(f.subs, fn)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	fn(value, err)
}

// Settled reports the terminal result, if any.
func (f *Future) Settled() (value any, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.settled
}
