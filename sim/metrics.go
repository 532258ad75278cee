package sim

import (
	"fmt"

	"github.com/VividCortex/ewma"
)

// LevelStats aggregates per-level counters over one run.
type LevelStats struct {
	Name       string
	Hits       int64
	Misses     int64
	Evictions  int64
	WriteBacks int64
}

// Metrics accumulates per-access outcomes into run totals. It is owned by
// the caller, not by the Hierarchy: the engine emits AccessEvents and the
// accumulator consumes them. Mutable during a run, finalized by Summary.
type Metrics struct {
	Accesses       int64
	Reads          int64
	Writes         int64
	TotalLatencyNs int64
	MemoryAccesses int64 // accesses that missed every cache level
	Levels         []LevelStats

	latencyEWMA ewma.MovingAverage
}

// NewMetrics creates an accumulator with one stats slot per level name,
// L1 first.
func NewMetrics(levelNames []string) *Metrics {
	levels := make([]LevelStats, len(levelNames))
	for i, name := range levelNames {
		levels[i] = LevelStats{Name: name}
	}
	return &Metrics{
		Levels:      levels,
		latencyEWMA: ewma.NewMovingAverage(),
	}
}

// Record folds one AccessEvent into the accumulated totals.
func (m *Metrics) Record(ev AccessEvent) {
	m.Accesses++
	if ev.Op == OpWrite {
		m.Writes++
	} else {
		m.Reads++
	}
	m.TotalLatencyNs += ev.TotalLatency
	m.latencyEWMA.Add(float64(ev.TotalLatency))
	if ev.HitLevel < 0 {
		m.MemoryAccesses++
	}
	for i, la := range ev.Levels {
		ls := &m.Levels[i]
		if la.Hit {
			ls.Hits++
		} else {
			ls.Misses++
		}
		if la.Evicted {
			ls.Evictions++
		}
		if la.WriteBack {
			ls.WriteBacks++
		}
	}
}

// RunSummary is the finalized per-run result record, consumable by an
// external aggregator or CSV reporter.
type RunSummary struct {
	Accesses          int64
	Reads             int64
	Writes            int64
	Levels            []LevelStats
	LevelHitRates     []float64 // hits at level i / total accesses
	OverallHits       int64
	OverallHitRate    float64
	AMATNs            float64 // mean latency per access
	MPKI              float64 // memory misses per 1000 accesses
	SmoothedLatencyNs float64 // EWMA of per-access latency at run end
}

// Summary finalizes the accumulated counters into a RunSummary. Safe to
// call on an empty run (all derived rates are zero).
func (m *Metrics) Summary() RunSummary {
	s := RunSummary{
		Accesses:          m.Accesses,
		Reads:             m.Reads,
		Writes:            m.Writes,
		Levels:            append([]LevelStats(nil), m.Levels...),
		LevelHitRates:     make([]float64, len(m.Levels)),
		OverallHits:       m.Accesses - m.MemoryAccesses,
		SmoothedLatencyNs: m.latencyEWMA.Value(),
	}
	if m.Accesses == 0 {
		return s
	}
	n := float64(m.Accesses)
	for i, ls := range m.Levels {
		s.LevelHitRates[i] = float64(ls.Hits) / n
	}
	s.OverallHitRate = float64(s.OverallHits) / n
	s.AMATNs = float64(m.TotalLatencyNs) / n
	s.MPKI = float64(m.MemoryAccesses) / (n / 1000.0)
	return s
}

// Print displays the summary at the end of a run.
func (s RunSummary) Print() {
	fmt.Println("=== Run Summary ===")
	fmt.Printf("Accesses         : %d (%d reads, %d writes)\n", s.Accesses, s.Reads, s.Writes)
	for i, ls := range s.Levels {
		fmt.Printf("%-4s hit rate    : %.4f (hits=%d misses=%d evictions=%d writebacks=%d)\n",
			ls.Name, s.LevelHitRates[i], ls.Hits, ls.Misses, ls.Evictions, ls.WriteBacks)
	}
	fmt.Printf("Overall hit rate : %.4f\n", s.OverallHitRate)
	fmt.Printf("AMAT             : %.3f ns\n", s.AMATNs)
	fmt.Printf("MPKI             : %.1f\n", s.MPKI)
	fmt.Printf("EWMA latency     : %.3f ns\n", s.SmoothedLatencyNs)
}
