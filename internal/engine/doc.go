// Package engine implements the view-state controller.
//
// The controller owns one ViewState and a finite set of events. Every user
// action becomes an Event passed to Controller.Dispatch, which validates
// it, applies it, stamps it in the trace, and notifies renderers with the
// freshly derived View.
//
// ARCHITECTURE:
//
// Single Source of Truth:
// All presentation is derived from ViewState plus the immutable catalog
// and the favorites set. Renderers never hold their own copy of what is
// active; they redraw from each View they receive.
//
// Event Processing Flow:
//  1. Caller builds an Event (SelectCategory, OpenTechnique, ...)
//  2. Dispatch takes the lock and stamps a seq from Clock
//  3. apply() checks preconditions and computes the successor state
//  4. Rejected: state untouched, *RuntimeError returned, trace records the code
//  5. Accepted: state replaced, View rebuilt, Renderer and Chart notified
//
// Search mode is derived, not stored: a non-blank SearchQuery overrides
// the listing while ActiveCategoryID stays put underneath.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Trace entries carry a monotonic seq from Clock.Next(), never wall time.
//
// Deterministic Quiz:
// Quiz randomness and session ids are injected (WithRNG, WithSessionIDs),
// so a seeded run is reproducible end to end.
package engine
