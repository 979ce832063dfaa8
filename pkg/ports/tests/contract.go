package tests

import (
	"context"
	"testing"

	"github.com/wirekit/wire/pkg/ports"
)

// ValueCacheContractTest is a reusable suite that verifies an adapter
// complies with ports.ValueCache. Values are limited to strings so the
// contract holds for serializing backends too.
func ValueCacheContractTest(t *testing.T, cache ports.ValueCache) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Missing", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "contract:missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected miss for unknown key")
		}
	})

	t.Run("Put_Get", func(t *testing.T) {
		if err := cache.Put(ctx, "contract:a", "alpha"); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		v, ok, err := cache.Get(ctx, "contract:a")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected hit after put")
		}
		if v != "alpha" {
			t.Errorf("got %v, want alpha", v)
		}
	})

	t.Run("Put_Overwrite", func(t *testing.T) {
		if err := cache.Put(ctx, "contract:b", "one"); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if err := cache.Put(ctx, "contract:b", "two"); err != nil {
			t.Fatalf("second put failed: %v", err)
		}
		v, ok, err := cache.Get(ctx, "contract:b")
		if err != nil || !ok {
			t.Fatalf("get failed: %v ok=%v", err, ok)
		}
		if v != "two" {
			t.Errorf("got %v, want two", v)
		}
	})

	t.Run("Keys_Independent", func(t *testing.T) {
		if err := cache.Put(ctx, "contract:c1", "c1"); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		_, ok, err := cache.Get(ctx, "contract:c2")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if ok {
			t.Error("unexpected hit for sibling key")
		}
	})
}
