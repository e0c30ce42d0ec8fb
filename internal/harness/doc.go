// Package harness runs conformance scenarios against the view-state
// controller.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: search_then_select
//	description: "Selecting a category clears the search"
//	seed: 1
//	favorites: [cot, rag]
//	steps:
//	  - event: set_search_query
//	    arg: chain
//	  - event: select_category
//	    arg: reasoning
//	  - event: open_technique
//	    arg: ghost
//	    expect_error: UNKNOWN_TECHNIQUE
//	assertions:
//	  - type: mode
//	    value: category
//	  - type: visible
//	    ids: [cot, self-ask, step-back, tree-of-thoughts]
//
// The arg placeholders $correct and $wrong resolve against the open quiz
// question at the moment the step runs.
//
// # Assertion Types
//
//   - mode, active_category, search_query, theme, notice: compare value
//   - visible: listed technique ids, in display order
//   - favorites: favorites set, in insertion order
//   - persisted: ids decoded from the stored favorites slot
//   - quiz: open, score, answered
//   - detail: value is the open technique id ("" for closed), optional draft
//   - trace_count: number of dispatched events, accepted or not
//
// # Deterministic Testing
//
// Every scenario runs on the embedded catalog with a fresh in-memory
// SQLite store, a PCG generator seeded from the scenario and fixed quiz
// session ids, so traces and final pages are reproducible for golden
// comparison.
package harness
