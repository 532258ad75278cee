// Package sim provides the core engine for simulating memory-reference
// traffic through a multi-level, inclusive, set-associative cache hierarchy.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - level.go: set-associative lookup, fill, and eviction within one cache level
//   - policy.go (and policy_lru.go / policy_fifo.go / policy_opt.go): block
//     replacement policies and victim selection
//   - hierarchy.go: the per-access walk across levels, inclusion, and latency
//     accounting
//
// # Architecture
//
// The sim package owns the hot path; collaborators live in sub-packages:
//   - sim/workload/: synthetic address-stream generation and trace replay
//   - sim/trace/: CSV records for per-access events and per-run results
//
// A run is single-threaded and deterministic: the same configuration and
// address stream always produce the same AccessEvent sequence. Sweeps over
// configurations parallelize by running independent Hierarchy instances.
//
// # Key Types
//
//   - Config / LevelConfig: per-level geometry, latency, and policy, validated
//     eagerly at construction
//   - ReplacementPolicy: LRU, FIFO, or Belady's OPT victim selection
//   - Hierarchy: drives each access through the levels and emits AccessEvents
//   - Metrics: consumes AccessEvents and finalizes a RunSummary (AMAT, MPKI)
package sim
