package projector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wirekit/wire/pkg/domain"
)

func TestMerge_PrecedenceOrder(t *testing.T) {
	refresh := domain.RefreshFunc(func(context.Context) error { return nil })
	aux := domain.Props{"model": "aux", "shared": "from-aux"}
	incoming := domain.Props{"shared": "from-props", "id": "1", "user": "stale"}
	st := domain.NewRendered()
	st.Values["user"] = "resolved"

	out := Merge(refresh, aux, incoming, st)

	assert.NotNil(t, out[domain.PropRefresh])
	assert.Equal(t, "aux", out["model"])
	assert.Equal(t, "from-props", out["shared"], "incoming overrides aux")
	assert.Equal(t, "resolved", out["user"], "rendered state overrides incoming")
	assert.Equal(t, "1", out["id"])
}

func TestMerge_PendingRejectedPresence(t *testing.T) {
	st := domain.NewRendered()
	out := Merge(nil, nil, domain.Props{}, st)
	assert.NotContains(t, out, domain.PropPending, "absent when empty")
	assert.NotContains(t, out, domain.PropRejected, "absent when empty")

	st.Pending["user"] = true
	st.Rejected["feed"] = errors.New("boom")
	out = Merge(nil, nil, domain.Props{}, st)

	pending, ok := out[domain.PropPending].(map[string]bool)
	require.True(t, ok)
	assert.True(t, pending["user"])

	rejected, ok := out[domain.PropRejected].(map[string]error)
	require.True(t, ok)
	assert.EqualError(t, rejected["feed"], "boom")
}

func TestMerge_EmptyStateShadowsIncomingReservedKeys(t *testing.T) {
	incoming := domain.Props{domain.PropPending: map[string]bool{"stale": true}}
	out := Merge(nil, nil, incoming, domain.NewRendered())
	assert.NotContains(t, out, domain.PropPending, "adapter owns the reserved keys")
}

func TestMerge_CopiesStateMaps(t *testing.T) {
	st := domain.NewRendered()
	st.Pending["user"] = true
	out := Merge(nil, nil, domain.Props{}, st)

	out[domain.PropPending].(map[string]bool)["user"] = false
	assert.True(t, st.Pending["user"], "merge must not alias tracker state")
}

func TestShallowEqual_Basics(t *testing.T) {
	assert.True(t, ShallowEqual(nil, nil))
	assert.True(t, ShallowEqual(domain.Props{}, domain.Props{}))
	assert.True(t, ShallowEqual(domain.Props{"a": 1}, domain.Props{"a": 1}))
	assert.False(t, ShallowEqual(domain.Props{"a": 1}, domain.Props{"a": 2}))
	assert.False(t, ShallowEqual(domain.Props{"a": 1}, domain.Props{"b": 1}))
	assert.False(t, ShallowEqual(domain.Props{"a": 1}, domain.Props{"a": 1, "b": 2}))
	assert.False(t, ShallowEqual(domain.Props{"a": 1}, domain.Props{"a": "1"}), "type matters")
	assert.True(t, ShallowEqual(domain.Props{"a": nil}, domain.Props{"a": nil}))
	assert.False(t, ShallowEqual(domain.Props{"a": nil}, domain.Props{"a": 0}))
}

func TestShallowEqual_ReferenceIdentity(t *testing.T) {
	m := map[string]any{"x": 1}
	s := []string{"a"}

	assert.True(t, ShallowEqual(domain.Props{"m": m, "s": s}, domain.Props{"m": m, "s": s}))

	// Equal content, different identity: shallow comparison says no.
	assert.False(t, ShallowEqual(
		domain.Props{"m": map[string]any{"x": 1}},
		domain.Props{"m": map[string]any{"x": 1}},
	))
	assert.False(t, ShallowEqual(
		domain.Props{"s": []string{"a"}},
		domain.Props{"s": []string{"a"}},
	))
}

func TestShallowEqual_UncomparableValuesDoNotPanic(t *testing.T) {
	type holder struct{ m map[string]int }
	a := holder{m: map[string]int{"x": 1}}

	assert.NotPanics(t, func() {
		ShallowEqual(domain.Props{"h": a}, domain.Props{"h": a})
	})
}
