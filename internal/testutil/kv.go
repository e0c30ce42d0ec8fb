package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrInjectedWrite is returned by MemoryKV writes while failure injection is on.
var ErrInjectedWrite = errors.New("injected write failure")

// MemoryKV is an in-memory key/value store with failure injection.
//
// It satisfies the same Get/Put/Delete/Keys contract as store.Store,
// without touching disk.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemoryKV struct {
	mu         sync.Mutex
	data       map[string]string
	failWrites bool
	writes     int
}

// NewMemoryKV creates a store pre-populated with seed entries.
func NewMemoryKV(seed map[string]string) *MemoryKV {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &MemoryKV{data: data}
}

// Get returns the value under key and whether it was present.
func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Put stores value under key. Fails with ErrInjectedWrite when
// SetFailWrites(true) is in effect; failed writes leave data unchanged.
func (m *MemoryKV) Put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrInjectedWrite
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrInjectedWrite
	}
	delete(m.data, key)
	m.writes++
	return nil
}

// Keys returns all keys in sorted order.
func (m *MemoryKV) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// SetFailWrites turns write failure injection on or off.
func (m *MemoryKV) SetFailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Writes returns the number of successful writes.
func (m *MemoryKV) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Raw returns the stored value for key without a context, for assertions.
func (m *MemoryKV) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}
