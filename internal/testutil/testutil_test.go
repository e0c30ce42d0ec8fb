package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_GetPut(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(map[string]string{"theme": "dark"})

	v, ok, err := kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	_, ok, err = kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, "theme", "light"))
	raw, ok := kv.Raw("theme")
	assert.True(t, ok)
	assert.Equal(t, "light", raw)
	assert.Equal(t, 1, kv.Writes())
}

func TestMemoryKV_SeedIsCopied(t *testing.T) {
	seed := map[string]string{"k": "v"}
	kv := NewMemoryKV(seed)
	seed["k"] = "changed"

	raw, _ := kv.Raw("k")
	assert.Equal(t, "v", raw)
}

func TestMemoryKV_FailWrites(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(nil)
	kv.SetFailWrites(true)

	err := kv.Put(ctx, "k", "v")
	assert.ErrorIs(t, err, ErrInjectedWrite)
	_, ok := kv.Raw("k")
	assert.False(t, ok, "failed write must not change data")
	assert.Equal(t, 0, kv.Writes())

	kv.SetFailWrites(false)
	require.NoError(t, kv.Put(ctx, "k", "v"))
}

func TestMemoryKV_DeleteAndKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(map[string]string{"b": "1", "a": "2", "c": "3"})

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, kv.Delete(ctx, "b"))
	keys, err = kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestMemoryKV_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kv := NewMemoryKV(nil)
	assert.Error(t, kv.Put(ctx, "k", "v"))
	_, _, err := kv.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryKV_ThreadSafe(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = kv.Put(ctx, "k", "v")
				_, _, _ = kv.Get(ctx, "k")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, kv.Writes())
}

func TestSeededRand_Deterministic(t *testing.T) {
	a := NewSeededRand(42)
	b := NewSeededRand(42)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntN(16), b.IntN(16))
	}
}

func TestScriptedRand(t *testing.T) {
	r := NewScriptedRand(0, 5, 17)

	assert.Equal(t, 0, r.IntN(4))
	assert.Equal(t, 1, r.IntN(4))
	assert.Equal(t, 1, r.IntN(16))
	// wraps
	assert.Equal(t, 0, r.IntN(4))
	assert.Equal(t, 4, r.Calls())
}

func TestScriptedRand_PanicsWhenEmpty(t *testing.T) {
	assert.Panics(t, func() { NewScriptedRand() })
}

func TestFixedSessionGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedSessionGenerator("test-session-123")

	assert.Equal(t, "test-session-123", gen.Generate())
	assert.Equal(t, "test-session-123", gen.Generate())
}

func TestFixedSessionGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedSessionGenerator("")
	assert.Equal(t, "test-session-default", gen.Generate())
}
