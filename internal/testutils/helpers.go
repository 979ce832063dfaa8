// Package testutils holds shared fixtures for adapter tests: a
// recording host and a scriptable model whose asynchronous results the
// test settles by hand, keeping every ordering deterministic.
package testutils

import (
	"sync"

	"github.com/wirekit/wire/pkg/domain"
)

// RecordingHost counts invalidation requests. Safe for concurrent use.
type RecordingHost struct {
	mu    sync.Mutex
	count int
}

func NewRecordingHost() *RecordingHost {
	return &RecordingHost{}
}

func (h *RecordingHost) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
}

// Invalidations returns how many times Invalidate ran.
func (h *RecordingHost) Invalidations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// ScriptedModel is a model fixture exposing one asynchronous method per
// registered name. Each call returns a fresh unsettled future and
// records its arguments; the test settles futures explicitly via Calls.
type ScriptedModel struct {
	mu    sync.Mutex
	calls map[string][]*ScriptedCall
	model map[string]any
}

// ScriptedCall is one recorded invocation of a scripted method.
type ScriptedCall struct {
	Args   []any
	Future *domain.Future
}

// NewScriptedModel registers the given method names.
func NewScriptedModel(methods ...string) *ScriptedModel {
	m := &ScriptedModel{
		calls: make(map[string][]*ScriptedCall),
		model: make(map[string]any, len(methods)),
	}
	for _, name := range methods {
		name := name
		m.model[name] = func(args ...any) *domain.Future {
			return m.record(name, args)
		}
	}
	return m
}

func (m *ScriptedModel) record(name string, args []any) *domain.Future {
	call := &ScriptedCall{Args: args, Future: domain.NewFuture()}
	m.mu.Lock()
	m.calls[name] = append(m.calls[name], call)
	m.mu.Unlock()
	return call.Future
}

// Model returns the value to place under the namespace in the env.
func (m *ScriptedModel) Model() map[string]any {
	return m.model
}

// Calls returns the recorded invocations of one method, in call order.
func (m *ScriptedModel) Calls(name string) []*ScriptedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ScriptedCall, len(m.calls[name]))
	copy(out, m.calls[name])
	return out
}

// CallCount returns how many times the named method ran.
func (m *ScriptedModel) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls[name])
}
