package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/trace"
	"github.com/cache-sim/cache-sim/sim/workload"
)

var (
	sweepAssocs   []int64   // L1 associativities for mode "assoc"
	sweepBlocks   []int64   // block sizes for mode "blocks"
	sweepSeqFracs []float64 // seq_frac grid for mode "workload"
	sweepHotFracs []float64 // hot_frac grid for mode "workload"
)

// sweepCmd runs a batch of simulations along one dimension and summarizes
// KPI deltas versus the first run as baseline.
var sweepCmd = &cobra.Command{
	Use:       "sweep [policies|assoc|blocks|workload]",
	Short:     "Sweep one configuration dimension and summarize KPI deltas",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"policies", "assoc", "blocks", "workload"},
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if err := validateLevelCount(numLevels); err != nil {
			logrus.Fatalf("%v", err)
		}

		eventsPath, resultsPath, err := prepareOutdir()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		// Stale CSVs from a previous sweep would mix runs; reset so the
		// results header is written fresh.
		resetOutputs(eventsPath, resultsPath)

		var results []trace.ResultRecord
		addRun := func(runID string, cfg sim.Config, spec *workload.Spec) {
			stream, err := loadStream(spec)
			if err != nil {
				logrus.Fatalf("address stream: %v", err)
			}
			rec, _, err := executeRun(runID, cfg, spec, stream, eventsPath, resultsPath)
			if err != nil {
				logrus.Fatalf("run %s failed: %v", runID, err)
			}
			results = append(results, rec)
		}

		switch mode := args[0]; mode {
		case "policies":
			for _, pol := range []string{"LRU", "FIFO", "OPT"} {
				spec := mustWorkloadSpec(blockSize, seqFrac, hotFrac)
				addRun(fmt.Sprintf("pol_%s_%s", pol, xid.New()),
					buildConfig(pol, l2Policy, l1Assoc, blockSize), spec)
			}
		case "assoc":
			for _, a := range sweepAssocs {
				spec := mustWorkloadSpec(blockSize, seqFrac, hotFrac)
				addRun(fmt.Sprintf("assoc_%d_%s", a, xid.New()),
					buildConfig(l1Policy, l2Policy, a, blockSize), spec)
			}
		case "blocks":
			for _, bs := range sweepBlocks {
				spec := mustWorkloadSpec(bs, seqFrac, hotFrac)
				addRun(fmt.Sprintf("block_%d_%s", bs, xid.New()),
					buildConfig(l1Policy, l2Policy, l1Assoc, bs), spec)
			}
		case "workload":
			for _, seq := range sweepSeqFracs {
				for _, hot := range sweepHotFracs {
					spec := mustWorkloadSpec(blockSize, seq, hot)
					addRun(fmt.Sprintf("wl_seq%g_hot%g_%s", seq, hot, xid.New()),
						buildConfig(l1Policy, l2Policy, l1Assoc, blockSize), spec)
				}
			}
		}

		writeSweepSummary(results)
	},
}

// mustWorkloadSpec builds the workload spec for one sweep run, exiting on
// invalid input since a sweep cannot proceed past a bad spec.
func mustWorkloadSpec(block int64, seq, hot float64) *workload.Spec {
	spec, err := buildWorkloadSpec(block, seq, hot)
	if err != nil {
		logrus.Fatalf("workload spec: %v", err)
	}
	return spec
}

// writeSweepSummary writes summary.txt with per-run AMAT/MPKI deltas versus
// the first run as baseline.
func writeSweepSummary(results []trace.ResultRecord) {
	text := trace.FormatSummary(results)
	if text == "" {
		text = "Runs completed. See results.csv.\n"
	}
	path := filepath.Join(outdir, "summary.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		logrus.Fatalf("writing %s: %v", path, err)
	}
	fmt.Print(text)
}

func init() {
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Int64SliceVar(&sweepAssocs, "assoc-list", []int64{2, 4, 8, 16}, "L1 associativities for mode assoc")
	sweepCmd.Flags().Int64SliceVar(&sweepBlocks, "block-list", []int64{32, 64, 128}, "Block sizes for mode blocks")
	sweepCmd.Flags().Float64SliceVar(&sweepSeqFracs, "seq-frac-list", []float64{0.2, 0.5, 0.8}, "seq_frac grid for mode workload")
	sweepCmd.Flags().Float64SliceVar(&sweepHotFracs, "hot-frac-list", []float64{0.1, 0.3}, "hot_frac grid for mode workload")
	rootCmd.AddCommand(sweepCmd)
}
