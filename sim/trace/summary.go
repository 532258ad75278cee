package trace

import (
	"fmt"
	"strings"
)

// Delta holds one run's KPI movement versus the sweep's baseline run.
type Delta struct {
	RunID       string
	DeltaAMATNs float64
	DeltaMPKI   float64
}

// Deltas computes per-run AMAT and MPKI deltas versus the first result row
// as baseline. Returns nil when there are fewer than two runs to compare.
func Deltas(results []ResultRecord) []Delta {
	if len(results) < 2 {
		return nil
	}
	base := results[0]
	deltas := make([]Delta, 0, len(results))
	for _, r := range results {
		deltas = append(deltas, Delta{
			RunID:       r.RunID,
			DeltaAMATNs: r.AMATNs - base.AMATNs,
			DeltaMPKI:   r.MPKI - base.MPKI,
		})
	}
	return deltas
}

// FormatSummary renders the sweep KPI summary written to summary.txt.
// Returns an empty string when no deltas can be computed.
func FormatSummary(results []ResultRecord) string {
	deltas := Deltas(results)
	if deltas == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "KPI deltas vs baseline: %s\n", results[0].RunID)
	for _, d := range deltas {
		fmt.Fprintf(&sb, "- %s: ΔAMAT=%.3f ns, ΔMPKI=%.1f\n", d.RunID, d.DeltaAMATNs, d.DeltaMPKI)
	}
	return sb.String()
}
