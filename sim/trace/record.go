// Package trace provides the CSV records a run emits: one EventRecord per
// access and one ResultRecord per run. This package has no dependencies on
// sim/ — it stores pure data types that external aggregators consume.
package trace

// EventRecord is one row of events.csv: the flattened outcome of a single
// access through a two-level hierarchy. Set indexes are strings because a
// level that was not probed leaves its column empty.
type EventRecord struct {
	RunID          string
	AccessID       int64
	Op             string
	Address        uint64
	BlockAddr      uint64
	PolicyL1       string
	PolicyL2       string
	LevelHit       string // "L1", "L2", or "Memory"
	TotalLatencyNs int64
	L1Hit          bool
	L2Hit          bool
	SetIndexL1     string
	SetIndexL2     string
	WriteBackL1    bool
	WriteBackL2    bool
}

// ResultRecord is one row of results.csv: the finalized summary of a run
// plus the configuration that produced it, serialized as JSON for
// downstream tooling.
type ResultRecord struct {
	RunID          string
	Accesses       int64
	PolicyL1       string
	PolicyL2       string
	L1HitRate      float64
	L2HitRate      float64
	OverallHitRate float64
	AMATNs         float64
	MPKI           float64
	EvictionsL1    int64
	EvictionsL2    int64
	WriteBacksL1   int64
	WriteBacksL2   int64
	ConfigJSON     string
}
