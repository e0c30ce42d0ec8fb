// Package ir provides the catalog record types for promptguide.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the catalog shape the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Records are immutable once compiled; nothing outside the compiler
//     constructs a Catalog field by field
//   - Technique IDs are unique across the whole catalog, not per category
//   - Scores always has exactly five entries (see Axes)
//   - All JSON tags use snake_case
package ir
