package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/trace"
	"github.com/cache-sim/cache-sim/sim/workload"
)

// validateLevelCount bounds the --levels flag to the hierarchies the CLI
// and the CSV schemas support.
func validateLevelCount(n int) error {
	if n < 1 || n > 2 {
		return fmt.Errorf("--levels must be 1 or 2, got %d", n)
	}
	return nil
}

// buildConfig assembles the hierarchy configuration from the CLI flags.
// Validation happens inside sim.NewHierarchy; this only shapes the struct.
func buildConfig(l1Pol, l2Pol string, l1A int64, block int64) sim.Config {
	cfg := sim.Config{
		MemLatencyNs: memLatency,
		Levels: []sim.LevelConfig{{
			Name:      "L1",
			SizeKB:    l1SizeKB,
			Assoc:     l1A,
			BlockSize: block,
			LatencyNs: l1LatencyNs,
			Policy:    sim.PolicyKind(l1Pol),
		}},
	}
	if numLevels >= 2 {
		cfg.Levels = append(cfg.Levels, sim.LevelConfig{
			Name:      "L2",
			SizeKB:    l2SizeKB,
			Assoc:     l2Assoc,
			BlockSize: block,
			LatencyNs: l2LatencyNs,
			Policy:    sim.PolicyKind(l2Pol),
		})
	}
	return cfg
}

// buildWorkloadSpec assembles the workload spec from flags, or loads the
// YAML file when --workload-file is given.
func buildWorkloadSpec(block int64, seq, hot float64) (*workload.Spec, error) {
	if workloadFile != "" {
		return workload.Load(workloadFile)
	}
	return &workload.Spec{
		Seed:           seed,
		Accesses:       accesses,
		AddressSpaceKB: addressSpaceKB,
		BlockSize:      block,
		SeqFrac:        seq,
		HotFrac:        hot,
		WriteRatio:     writeRatio,
	}, nil
}

// loadStream produces the address stream: trace replay when --trace-file is
// set, synthetic generation otherwise.
func loadStream(spec *workload.Spec) ([]sim.Access, error) {
	if traceFile != "" {
		return workload.Replay(traceFile)
	}
	return workload.Generate(spec)
}

// runConfigJSON is the configuration payload embedded in each results.csv
// row, for downstream tooling that joins results back to their inputs.
type runConfigJSON struct {
	Levels       []sim.LevelConfig `json:"levels"`
	MemLatencyNs int64             `json:"memory_latency_ns"`
	Workload     *workload.Spec    `json:"workload,omitempty"`
	TraceFile    string            `json:"trace_file,omitempty"`
}

// executeRun performs one full simulation: build the hierarchy, replay the
// stream, write events.csv (truncated per run), and append the result row
// to results.csv. Returns the result row for sweep summaries.
func executeRun(runID string, cfg sim.Config, spec *workload.Spec,
	stream []sim.Access, eventsPath, resultsPath string) (trace.ResultRecord, sim.RunSummary, error) {

	h, err := sim.NewHierarchy(cfg)
	if err != nil {
		return trace.ResultRecord{}, sim.RunSummary{}, err
	}
	levelNames := make([]string, len(cfg.Levels))
	for i, lc := range cfg.Levels {
		levelNames[i] = lc.Name
	}
	m := sim.NewMetrics(levelNames)

	logrus.Infof("run %s: %d accesses, policies=%v", runID, len(stream), policies(cfg))

	events, err := h.Simulate(stream, m)
	if err != nil {
		return trace.ResultRecord{}, sim.RunSummary{}, err
	}

	if err := writeEvents(runID, cfg, events, eventsPath); err != nil {
		return trace.ResultRecord{}, sim.RunSummary{}, err
	}

	summary := m.Summary()
	result, err := buildResult(runID, cfg, spec, summary)
	if err != nil {
		return trace.ResultRecord{}, sim.RunSummary{}, err
	}
	if err := appendResult(result, resultsPath); err != nil {
		return trace.ResultRecord{}, sim.RunSummary{}, err
	}
	return result, summary, nil
}

// writeEvents serializes the event sequence to eventsPath, truncating any
// previous run's file.
func writeEvents(runID string, cfg sim.Config, events []sim.AccessEvent, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	ew, err := trace.NewEventWriter(f)
	if err != nil {
		return err
	}
	polL1, polL2 := policies(cfg)[0], ""
	if len(cfg.Levels) >= 2 {
		polL2 = policies(cfg)[1]
	}
	block := uint64(cfg.Levels[0].BlockSize)
	for _, ev := range events {
		rec := trace.EventRecord{
			RunID:          runID,
			AccessID:       ev.ID,
			Op:             ev.Op.String(),
			Address:        ev.Addr,
			BlockAddr:      ev.Addr / block,
			PolicyL1:       polL1,
			PolicyL2:       polL2,
			LevelHit:       ev.HitLevelName(),
			TotalLatencyNs: ev.TotalLatency,
		}
		if len(ev.Levels) >= 1 {
			la := ev.Levels[0]
			rec.L1Hit = la.Hit
			rec.SetIndexL1 = strconv.FormatUint(la.SetIndex, 10)
			rec.WriteBackL1 = la.WriteBack
		}
		if len(ev.Levels) >= 2 {
			la := ev.Levels[1]
			rec.L2Hit = la.Hit
			rec.SetIndexL2 = strconv.FormatUint(la.SetIndex, 10)
			rec.WriteBackL2 = la.WriteBack
		}
		if err := ew.Write(rec); err != nil {
			return err
		}
	}
	return ew.Flush()
}

// buildResult flattens a RunSummary into the two-level results.csv schema.
func buildResult(runID string, cfg sim.Config, spec *workload.Spec, s sim.RunSummary) (trace.ResultRecord, error) {
	cfgJSON, err := json.Marshal(runConfigJSON{
		Levels:       cfg.Levels,
		MemLatencyNs: cfg.MemLatencyNs,
		Workload:     spec,
		TraceFile:    traceFile,
	})
	if err != nil {
		return trace.ResultRecord{}, fmt.Errorf("marshaling run config: %w", err)
	}

	r := trace.ResultRecord{
		RunID:          runID,
		Accesses:       s.Accesses,
		PolicyL1:       string(cfg.Levels[0].Policy),
		OverallHitRate: s.OverallHitRate,
		AMATNs:         s.AMATNs,
		MPKI:           s.MPKI,
		ConfigJSON:     string(cfgJSON),
	}
	if len(s.Levels) >= 1 {
		r.L1HitRate = s.LevelHitRates[0]
		r.EvictionsL1 = s.Levels[0].Evictions
		r.WriteBacksL1 = s.Levels[0].WriteBacks
	}
	if len(cfg.Levels) >= 2 {
		r.PolicyL2 = string(cfg.Levels[1].Policy)
	}
	if len(s.Levels) >= 2 {
		r.L2HitRate = s.LevelHitRates[1]
		r.EvictionsL2 = s.Levels[1].Evictions
		r.WriteBacksL2 = s.Levels[1].WriteBacks
	}
	return r, nil
}

// appendResult appends one row to results.csv, writing the header first
// when the file does not exist yet.
func appendResult(r trace.ResultRecord, path string) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rw := trace.NewResultWriter(f)
	if fresh {
		if err := rw.WriteHeader(); err != nil {
			return err
		}
	}
	if err := rw.Write(r); err != nil {
		return err
	}
	return rw.Flush()
}

// policies returns the per-level policy names, L1 first.
func policies(cfg sim.Config) []string {
	out := make([]string, len(cfg.Levels))
	for i, lc := range cfg.Levels {
		out[i] = string(lc.Policy)
	}
	return out
}

// prepareOutdir creates the output directory and returns the CSV paths.
func prepareOutdir() (eventsPath, resultsPath string, err error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating outdir: %w", err)
	}
	return filepath.Join(outdir, "events.csv"), filepath.Join(outdir, "results.csv"), nil
}

// resetOutputs removes stale CSVs so headers are rewritten for a new sweep.
func resetOutputs(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("could not remove %s: %v", p, err)
		}
	}
}
