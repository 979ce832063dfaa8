package wire_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wirekit/wire"
	"github.com/wirekit/wire/internal/testutils"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

// echo returns the props it was rendered with, so tests can inspect the
// merged output of the adapter directly.
var echo = ports.ComponentFunc(func(props domain.Props) any { return props })

func render(t *testing.T, inst *wire.Instance) domain.Props {
	t.Helper()
	props, ok := inst.Render(nil).(domain.Props)
	require.True(t, ok)
	return props
}

func TestInstance_AsyncLifecycle(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	host := testutils.NewRecordingHost()

	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{}, host)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))

	out := render(t, inst)
	pending, ok := out[domain.PropPending].(map[string]bool)
	require.True(t, ok, "first render is pending")
	assert.True(t, pending["username"])
	assert.NotContains(t, out, "username")
	assert.NotContains(t, out, domain.PropRejected)

	calls := model.Calls("getUsername")
	require.Len(t, calls, 1)
	calls[0].Future.Resolve("alice")

	assert.Equal(t, 1, host.Invalidations(), "settlement requests a re-render")
	assert.True(t, inst.ShouldUpdate())

	out = render(t, inst)
	assert.Equal(t, "alice", out["username"])
	assert.NotContains(t, out, domain.PropPending)
	assert.False(t, inst.ShouldUpdate(), "nothing changed since last render")
}

func TestInstance_Rejection(t *testing.T) {
	model := testutils.NewScriptedModel("getTopStories")
	binder := wire.Wire("api", domain.Static{"stories": "getTopStories"}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	model.Calls("getTopStories")[0].Future.Reject(errors.New("boom"))

	out := render(t, inst)
	rejected, ok := out[domain.PropRejected].(map[string]error)
	require.True(t, ok)
	assert.EqualError(t, rejected["stories"], "boom")
	assert.NotContains(t, out, domain.PropPending)
	assert.NotContains(t, out, "stories", "no previous value to fall back to")
}

func TestInstance_RetryClearsRejection(t *testing.T) {
	model := testutils.NewScriptedModel("getTopStories")
	binder := wire.Wire("api", domain.Static{"stories": "getTopStories"}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	model.Calls("getTopStories")[0].Future.Reject(errors.New("boom"))

	refresh, ok := render(t, inst)[domain.PropRefresh].(domain.RefreshFunc)
	require.True(t, ok)
	require.NoError(t, refresh(context.Background()))

	out := render(t, inst)
	assert.NotContains(t, out, domain.PropRejected, "new attempt supersedes the rejection")
	assert.Contains(t, out[domain.PropPending], "stories")

	model.Calls("getTopStories")[1].Future.Resolve([]string{"a", "b"})
	out = render(t, inst)
	assert.Equal(t, []string{"a", "b"}, out["stories"])
}

func TestInstance_UnchangedKeySkipsInvocation(t *testing.T) {
	model := testutils.NewScriptedModel("getUser")
	binder := wire.Wire("api", domain.Static{"user": []any{"getUser", "id"}}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{"id": "1", "noise": 1}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	require.Equal(t, 1, model.CallCount("getUser"))

	// Unrelated prop churn: same id, same derived key, no new call.
	require.NoError(t, inst.ReceiveProps(context.Background(), domain.Props{"id": "1", "noise": 2}))
	assert.Equal(t, 1, model.CallCount("getUser"))

	// The argument changed, so the key changed, so the call re-issues.
	require.NoError(t, inst.ReceiveProps(context.Background(), domain.Props{"id": "2", "noise": 2}))
	require.Equal(t, 2, model.CallCount("getUser"))
	assert.Equal(t, []any{"2"}, model.Calls("getUser")[1].Args)
}

func TestInstance_IdenticalPropsAreNoOp(t *testing.T) {
	model := testutils.NewScriptedModel("getUser")
	binder := wire.Wire("api", domain.Static{"user": []any{"getUser", "id"}}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{"id": "1"}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	model.Calls("getUser")[0].Future.Resolve("alice")
	render(t, inst)

	require.NoError(t, inst.ReceiveProps(context.Background(), domain.Props{"id": "1"}))
	assert.False(t, inst.ShouldUpdate(), "shallow-equal props with unchanged keys never re-render")
	assert.Equal(t, 1, model.CallCount("getUser"))
}

func TestInstance_OutOfOrderSettlementIsDropped(t *testing.T) {
	var mu sync.Mutex
	var drops int
	hooks := domain.Hooks{OnStaleDrop: func(string, string) {
		mu.Lock()
		drops++
		mu.Unlock()
	}}

	model := testutils.NewScriptedModel("getUser")
	binder := wire.Wire("api", domain.Static{"user": []any{"getUser", "id"}}, nil, wire.WithHooks(hooks))
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{"id": "1"}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	require.NoError(t, inst.ReceiveProps(context.Background(), domain.Props{"id": "2"}))

	calls := model.Calls("getUser")
	require.Len(t, calls, 2)

	// The newer invocation settles first; the older one is stale.
	calls[1].Future.Resolve("bob")
	calls[0].Future.Resolve("alice")

	out := render(t, inst)
	assert.Equal(t, "bob", out["user"])
	assert.NotContains(t, out, domain.PropPending)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, drops)
}

func TestInstance_SharedCacheAcrossInstances(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)
	bound := binder.Bind(echo)
	env := domain.Env{"api": model.Model()}

	first := bound.New(env, domain.Props{}, nil)
	defer first.Close()
	require.NoError(t, first.Mount(context.Background()))
	model.Calls("getUsername")[0].Future.Resolve("alice")

	// Same configuration, same key: the second instance renders the
	// cached value immediately while its own call is still in flight.
	second := bound.New(env, domain.Props{}, nil)
	defer second.Close()
	require.NoError(t, second.Mount(context.Background()))

	out := render(t, second)
	assert.Equal(t, "alice", out["username"])
	assert.Contains(t, out[domain.PropPending], "username")

	model.Calls("getUsername")[1].Future.Resolve("alice2")
	out = render(t, second)
	assert.Equal(t, "alice2", out["username"])
	assert.NotContains(t, out, domain.PropPending)
}

func TestInstance_PendingInvocationSharedAcrossInstances(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)
	bound := binder.Bind(echo)
	env := domain.Env{"api": model.Model()}

	first := bound.New(env, domain.Props{}, nil)
	defer first.Close()
	require.NoError(t, first.Mount(context.Background()))

	// Same key, still pending: the second instance subscribes to the
	// first instance's operation instead of invoking the model again.
	second := bound.New(env, domain.Props{}, nil)
	defer second.Close()
	require.NoError(t, second.Mount(context.Background()))

	require.Equal(t, 1, model.CallCount("getUsername"))
	assert.Contains(t, render(t, second)[domain.PropPending], "username")

	model.Calls("getUsername")[0].Future.Resolve("alice")
	assert.Equal(t, "alice", render(t, first)["username"])
	assert.Equal(t, "alice", render(t, second)["username"])
}

func TestInstance_RejectionFallsBackToCachedValue(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	model.Calls("getUsername")[0].Future.Resolve("alice")

	refresh, ok := render(t, inst)[domain.PropRefresh].(domain.RefreshFunc)
	require.True(t, ok)
	require.NoError(t, refresh(context.Background()))
	model.Calls("getUsername")[1].Future.Reject(errors.New("upstream down"))

	out := render(t, inst)
	rejected, ok := out[domain.PropRejected].(map[string]error)
	require.True(t, ok)
	assert.EqualError(t, rejected["username"], "upstream down")
	assert.Equal(t, "alice", out["username"], "last good value survives the failure")
}

func TestInstance_RefreshReissuesUnchangedKeys(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	host := testutils.NewRecordingHost()
	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{}, host)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	model.Calls("getUsername")[0].Future.Resolve("alice")
	require.Equal(t, 1, model.CallCount("getUsername"))

	require.NoError(t, inst.Refresh(context.Background()))
	assert.Equal(t, 2, model.CallCount("getUsername"), "refresh bypasses key equality")
}

func TestInstance_AuxAndIncomingPrecedence(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	toProps := func(m any, initial domain.Props) domain.Props {
		return domain.Props{"greeting": "hello", "id": "from-model"}
	}

	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, toProps)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{"id": "42"}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	out := render(t, inst)

	assert.Equal(t, "hello", out["greeting"], "auxiliary props pass through")
	assert.Equal(t, "42", out["id"], "incoming props override auxiliary props")

	model.Calls("getUsername")[0].Future.Resolve("alice")
	out = render(t, inst)
	assert.Equal(t, "alice", out["username"], "rendered state overrides everything")
}

func TestInstance_LiteralAndDirectValues(t *testing.T) {
	binder := wire.Wire("api", domain.Static{
		"flag":  true,
		"limit": []any{30},
	}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": map[string]any{}}, domain.Props{}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	out := render(t, inst)

	assert.Equal(t, true, out["flag"])
	assert.Equal(t, 30, out["limit"])
	assert.NotContains(t, out, domain.PropPending)
}

func TestInstance_DynamicMapping(t *testing.T) {
	model := testutils.NewScriptedModel("search")
	mapping := domain.Dynamic(func(props domain.Props) map[string]any {
		return map[string]any{
			"results": []any{"search", props["query"]},
		}
	})

	binder := wire.Wire("api", mapping, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model.Model()}, domain.Props{"query": "go"}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	require.Equal(t, 1, model.CallCount("search"))
	assert.Equal(t, []any{"go"}, model.Calls("search")[0].Args)

	require.NoError(t, inst.ReceiveProps(context.Background(), domain.Props{"query": "rust"}))
	require.Equal(t, 2, model.CallCount("search"))
	assert.Equal(t, []any{"rust"}, model.Calls("search")[1].Args)
}

func TestInstance_DynamicStringBindingPassesThrough(t *testing.T) {
	calls := 0
	model := map[string]any{
		"getGreeting": func() *domain.Future {
			calls++
			return domain.Go(func() (any, error) { return "hi", nil })
		},
	}
	mapping := domain.Dynamic(func(domain.Props) map[string]any {
		return map[string]any{"msg": "getGreeting"}
	})

	binder := wire.Wire("api", mapping, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": model}, domain.Props{}, nil)
	defer inst.Close()

	require.NoError(t, inst.Mount(context.Background()))
	out := render(t, inst)

	assert.Equal(t, "getGreeting", out["msg"], "a bare string from a computed mapping is data")
	assert.Equal(t, 0, calls)
	assert.NotContains(t, out, domain.PropPending)
}

func TestInstance_MountReturnsConfigError(t *testing.T) {
	binder := wire.Wire("api", domain.Static{"username": "no.such.method"}, nil)
	inst := binder.Bind(echo).New(domain.Env{"api": map[string]any{}}, domain.Props{}, nil)
	defer inst.Close()

	err := inst.Mount(context.Background())
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "username", cfgErr.Property)
}

func TestInstance_Stacking(t *testing.T) {
	userModel := testutils.NewScriptedModel("getUser")
	feedModel := testutils.NewScriptedModel("getFeed")
	env := domain.Env{
		"users": userModel.Model(),
		"feeds": feedModel.Model(),
	}

	inner := wire.Wire("feeds", domain.Static{"feed": "getFeed"}, nil).
		Bind(echo).New(env, domain.Props{}, nil)
	defer inner.Close()
	require.NoError(t, inner.Mount(context.Background()))

	outer := wire.Wire("users", domain.Static{"user": "getUser"}, nil).
		Bind(inner).New(env, domain.Props{}, nil)
	defer outer.Close()
	require.NoError(t, outer.Mount(context.Background()))

	userModel.Calls("getUser")[0].Future.Resolve("alice")
	feedModel.Calls("getFeed")[0].Future.Resolve([]string{"post"})

	out := render(t, outer)
	assert.Equal(t, "alice", out["user"], "outer value flows through the inner adapter")
	assert.Equal(t, []string{"post"}, out["feed"])

	leaf := ports.Innermost(outer)
	_, isInstance := leaf.(*wire.Instance)
	assert.False(t, isInstance, "unwrapping peels both adapter layers")
	_, isFunc := leaf.(ports.ComponentFunc)
	assert.True(t, isFunc)
}

func TestBinder_Snapshots(t *testing.T) {
	model := testutils.NewScriptedModel("getUsername")
	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)
	bound := binder.Bind(echo)
	env := domain.Env{"api": model.Model()}

	a := bound.New(env, domain.Props{}, nil)
	b := bound.New(env, domain.Props{}, nil)
	require.NoError(t, a.Mount(context.Background()))
	require.NoError(t, b.Mount(context.Background()))

	snaps := binder.Snapshots()
	require.Len(t, snaps, 2)
	assert.Contains(t, snaps[0].Pending, "username")

	snap, ok := binder.Snapshot(a.ID())
	require.True(t, ok)
	assert.Equal(t, a.ID(), snap.ID)

	a.Close()
	assert.Len(t, binder.Snapshots(), 1)

	b.Close()
	_, ok = binder.Snapshot(b.ID())
	assert.False(t, ok)
}
