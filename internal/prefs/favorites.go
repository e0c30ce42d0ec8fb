// Package prefs holds the user's locally persisted preferences:
// the favorites set and the color theme.
//
// Both live in a KV slot and follow the same failure policy. Reads that
// find nothing usable fall back to a default and log a warning. Writes
// that fail are logged at error level and the in-memory value stays
// authoritative for the rest of the session.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/roach88/promptguide/internal/ir"
)

// FavoritesKey is the KV slot holding the JSON array of favorite ids.
const FavoritesKey = "promptGuideFavorites"

// KV is the persistence capability prefs needs.
// Implemented by store.Store and testutil.MemoryKV.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
}

// Favorites is the set of favorite technique ids.
//
// Membership has set semantics; ids are also kept in insertion order so the
// persisted array is stable across toggles.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Favorites struct {
	mu     sync.Mutex
	kv     KV
	logger *zap.Logger
	order  []ir.TechniqueID
	set    map[ir.TechniqueID]struct{}
}

// NewFavorites reads the favorites slot from kv.
//
// A missing slot, a read error or malformed JSON all yield an empty set.
// The last two are logged at warn level and never surfaced to the caller.
func NewFavorites(ctx context.Context, kv KV, logger *zap.Logger) *Favorites {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Favorites{
		kv:     kv,
		logger: logger,
		set:    make(map[ir.TechniqueID]struct{}),
	}

	raw, found, err := kv.Get(ctx, FavoritesKey)
	if err != nil {
		logger.Warn("failed to read favorites, starting empty", zap.Error(err))
		return f
	}
	if !found {
		return f
	}

	ids, err := decodeFavorites(raw)
	if err != nil {
		logger.Warn("malformed favorites slot, starting empty",
			zap.String("key", FavoritesKey),
			zap.Error(err))
		return f
	}

	for _, tid := range ids {
		if _, dup := f.set[tid]; dup {
			continue
		}
		f.set[tid] = struct{}{}
		f.order = append(f.order, tid)
	}

	logger.Debug("favorites loaded", zap.Int("count", len(f.order)))
	return f
}

// decodeFavorites parses the slot as a JSON array of non-empty strings.
// Any other element rejects the whole slot.
func decodeFavorites(raw string) ([]ir.TechniqueID, error) {
	var elems []any
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, err
	}
	ids := make([]ir.TechniqueID, 0, len(elems))
	for i, el := range elems {
		id, ok := el.(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("element %d is not a technique id: %v", i, el)
		}
		ids = append(ids, ir.TechniqueID(id))
	}
	return ids, nil
}

// IsFavorite reports whether id is in the set.
func (f *Favorites) IsFavorite(id ir.TechniqueID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.set[id]
	return ok
}

// Toggle adds id if absent or removes it if present, then writes the full
// set back to the KV slot. Returns the new membership of id.
//
// A failed write is logged; the in-memory toggle still takes effect.
func (f *Favorites) Toggle(ctx context.Context, id ir.TechniqueID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	member := false
	if _, ok := f.set[id]; ok {
		delete(f.set, id)
		for i, existing := range f.order {
			if existing == id {
				f.order = append(f.order[:i:i], f.order[i+1:]...)
				break
			}
		}
	} else {
		f.set[id] = struct{}{}
		f.order = append(f.order, id)
		member = true
	}

	f.persistLocked(ctx)
	return member
}

// All returns a snapshot of the ids in insertion order.
func (f *Favorites) All() []ir.TechniqueID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ir.TechniqueID, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func (f *Favorites) persistLocked(ctx context.Context) {
	ids := make([]string, len(f.order))
	for i, id := range f.order {
		ids[i] = string(id)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		f.logger.Error("failed to encode favorites", zap.Error(err))
		return
	}

	if err := f.kv.Put(ctx, FavoritesKey, string(data)); err != nil {
		f.logger.Error("failed to persist favorites",
			zap.String("key", FavoritesKey),
			zap.Int("count", len(ids)),
			zap.Error(err))
	}
}
