// Package store provides SQLite-backed durable storage for local preferences.
//
// The store is a flat key/value table:
//   - key:   slot name (e.g. "promptGuideFavorites", "theme")
//   - value: opaque text, usually JSON
//   - seq:   logical write counter, bumped on every Put
//
// # Critical Patterns
//
// Logical Time
//   - Write ordering uses seq INTEGER, never timestamps
//   - Entries are listed ORDER BY seq ASC, key ASC COLLATE BINARY
//
// Upsert Semantics
//   - Put replaces the whole value of a slot; there are no partial updates
//   - Delete of a missing key is not an error
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s on lock contention
//   - Schema version tracked in PRAGMA user_version
//
// # Usage
//
//	s, err := store.Open("promptguide.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Put(ctx, "theme", "dark"); err != nil {
//	    return err
//	}
//	value, found, err := s.Get(ctx, "theme")
package store
