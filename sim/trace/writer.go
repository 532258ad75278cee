package trace

import (
	"encoding/csv"
	"io"
	"strconv"
)

// EventWriter streams EventRecords as CSV rows.
type EventWriter struct {
	w *csv.Writer
}

// NewEventWriter wraps w and writes the events.csv header row.
func NewEventWriter(w io.Writer) (*EventWriter, error) {
	ew := &EventWriter{w: csv.NewWriter(w)}
	header := []string{
		"run_id", "access_id", "op", "address", "block_addr",
		"policy_L1", "policy_L2", "level_hit", "total_latency_ns",
		"l1_hit", "l2_hit", "set_index_L1", "set_index_L2",
		"writeback_L1", "writeback_L2",
	}
	if err := ew.w.Write(header); err != nil {
		return nil, err
	}
	return ew, nil
}

// Write appends one event row.
func (ew *EventWriter) Write(r EventRecord) error {
	return ew.w.Write([]string{
		r.RunID,
		strconv.FormatInt(r.AccessID, 10),
		r.Op,
		strconv.FormatUint(r.Address, 10),
		strconv.FormatUint(r.BlockAddr, 10),
		r.PolicyL1,
		r.PolicyL2,
		r.LevelHit,
		strconv.FormatInt(r.TotalLatencyNs, 10),
		flag(r.L1Hit),
		flag(r.L2Hit),
		r.SetIndexL1,
		r.SetIndexL2,
		flag(r.WriteBackL1),
		flag(r.WriteBackL2),
	})
}

// Flush flushes buffered rows and reports any write error.
func (ew *EventWriter) Flush() error {
	ew.w.Flush()
	return ew.w.Error()
}

// ResultWriter appends ResultRecords as CSV rows. results.csv accumulates
// rows across the runs of a sweep, so the header is written separately,
// only when the file is fresh.
type ResultWriter struct {
	w *csv.Writer
}

// NewResultWriter wraps w without writing anything.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the results.csv header row.
func (rw *ResultWriter) WriteHeader() error {
	return rw.w.Write([]string{
		"run_id", "n_accesses", "policy_L1", "policy_L2",
		"l1_hit_rate", "l2_hit_rate", "overall_hit_rate", "amat_ns", "mpki",
		"evictions_L1", "evictions_L2", "writebacks_L1", "writebacks_L2",
		"config_json",
	})
}

// Write appends one result row.
func (rw *ResultWriter) Write(r ResultRecord) error {
	return rw.w.Write([]string{
		r.RunID,
		strconv.FormatInt(r.Accesses, 10),
		r.PolicyL1,
		r.PolicyL2,
		strconv.FormatFloat(r.L1HitRate, 'g', -1, 64),
		strconv.FormatFloat(r.L2HitRate, 'g', -1, 64),
		strconv.FormatFloat(r.OverallHitRate, 'g', -1, 64),
		strconv.FormatFloat(r.AMATNs, 'g', -1, 64),
		strconv.FormatFloat(r.MPKI, 'g', -1, 64),
		strconv.FormatInt(r.EvictionsL1, 10),
		strconv.FormatInt(r.EvictionsL2, 10),
		strconv.FormatInt(r.WriteBacksL1, 10),
		strconv.FormatInt(r.WriteBacksL2, 10),
		r.ConfigJSON,
	})
}

// Flush flushes buffered rows and reports any write error.
func (rw *ResultWriter) Flush() error {
	rw.w.Flush()
	return rw.w.Error()
}

// flag renders a bool the way the CSV schema expects: 1 or 0.
func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
