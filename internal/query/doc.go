// Package query implements the read side of the catalog: lookups, the
// synthesized favorites category, free-text search, category tags and
// the quiz question generator.
//
// Everything here is a pure function of its inputs except QuizGenerator,
// which draws from an injected RNG.
package query
