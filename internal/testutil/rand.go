package testutil

import (
	"math/rand/v2"
	"sync"
)

// NewSeededRand returns a deterministic PCG-backed source.
//
// The same seed always yields the same sequence, so quiz questions in
// tests and golden scenarios are reproducible.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ScriptedRand replays a fixed list of draws.
//
// Each IntN(n) call returns the next scripted value modulo n. Once the
// script is exhausted it wraps around to the start.
//
// Thread-safety: ScriptedRand is safe for concurrent use via internal mutex.
type ScriptedRand struct {
	mu    sync.Mutex
	draws []int
	idx   int
}

// NewScriptedRand creates a source that returns draws in order.
// Panics if draws is empty.
func NewScriptedRand(draws ...int) *ScriptedRand {
	if len(draws) == 0 {
		panic("ScriptedRand: no draws")
	}
	return &ScriptedRand{draws: draws}
}

// IntN returns the next scripted draw reduced into [0, n).
func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.draws[r.idx%len(r.draws)]
	r.idx++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns how many draws have been consumed.
func (r *ScriptedRand) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx
}
