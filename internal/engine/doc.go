// Package engine contains the sequence-matching stages of the diff. It never
// imports app, writers, config, or pipeline; keep it domain-only.
//
// Every stage reads the remaining old and new sets, collects its matches
// first and only then removes the committed records, so no set is mutated
// while it is being iterated.
//
// External outputs must not depend on the internal shape here; use pkg/api
// for stable wire types (JSON/JSONL v1).
package engine
