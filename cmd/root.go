package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags for hierarchy geometry
	numLevels   int    // Number of cache levels (1 or 2)
	l1Policy    string // L1 replacement policy
	l2Policy    string // L2 replacement policy
	l1SizeKB    int64  // L1 capacity in KB
	l2SizeKB    int64  // L2 capacity in KB
	l1Assoc     int64  // L1 associativity
	l2Assoc     int64  // L2 associativity
	l1LatencyNs int64  // L1 probe latency in ns
	l2LatencyNs int64  // L2 probe latency in ns
	memLatency  int64  // Terminal memory latency in ns
	blockSize   int64  // Block size in bytes, shared by all levels

	// CLI flags for workload generation
	accesses       int64   // Number of accesses to generate
	addressSpaceKB int64   // Address space size in KB
	seqFrac        float64 // Fraction of accesses in sequential bursts
	hotFrac        float64 // Fraction of accesses targeting the hot region
	writeRatio     float64 // Per-access write probability
	seed           int64   // Seed for address-stream generation
	workloadFile   string  // YAML workload spec path (overrides workload flags)
	traceFile      string  // CSV trace to replay instead of generating

	// Output and logging
	outdir   string // Directory for events.csv / results.csv / summary.txt
	logLevel string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cache-sim",
	Short: "Deterministic multi-level cache hierarchy simulator",
	Long: "cache-sim replays memory-reference traffic through an inclusive,\n" +
		"set-associative L1/L2 hierarchy to compare block replacement policies\n" +
		"(LRU, FIFO, Belady's OPT) by AMAT, MPKI, and write-back behavior.",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the --log flag before any subcommand work runs.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// addSimFlags registers the flags shared by run and sweep.
func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&numLevels, "levels", 2, "Number of cache levels (1 or 2)")
	cmd.Flags().StringVar(&l1Policy, "l1-policy", "LRU", "L1 replacement policy (LRU, FIFO, OPT)")
	cmd.Flags().StringVar(&l2Policy, "l2-policy", "LRU", "L2 replacement policy (LRU, FIFO, OPT)")
	cmd.Flags().Int64Var(&l1SizeKB, "l1-size-kb", 32, "L1 capacity in KB")
	cmd.Flags().Int64Var(&l2SizeKB, "l2-size-kb", 256, "L2 capacity in KB")
	cmd.Flags().Int64Var(&l1Assoc, "l1-assoc", 8, "L1 associativity")
	cmd.Flags().Int64Var(&l2Assoc, "l2-assoc", 8, "L2 associativity")
	cmd.Flags().Int64Var(&l1LatencyNs, "l1-latency-ns", 4, "L1 probe latency in ns")
	cmd.Flags().Int64Var(&l2LatencyNs, "l2-latency-ns", 12, "L2 probe latency in ns")
	cmd.Flags().Int64Var(&memLatency, "mem-latency-ns", 100, "Memory latency in ns")
	cmd.Flags().Int64Var(&blockSize, "block-size", 64, "Block size in bytes")

	cmd.Flags().Int64Var(&accesses, "n", 10000, "Number of accesses")
	cmd.Flags().Int64Var(&addressSpaceKB, "address-space-kb", 1024, "Address space in KB")
	cmd.Flags().Float64Var(&seqFrac, "seq-frac", 0.5, "Fraction of accesses in sequential bursts")
	cmd.Flags().Float64Var(&hotFrac, "hot-frac", 0.3, "Fraction of accesses targeting the hot region")
	cmd.Flags().Float64Var(&writeRatio, "write-ratio", 0.1, "Per-access write probability")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for address-stream generation")
	cmd.Flags().StringVar(&workloadFile, "workload-file", "", "YAML workload spec (overrides workload flags)")
	cmd.Flags().StringVar(&traceFile, "trace-file", "", "CSV trace to replay instead of generating a workload")

	cmd.Flags().StringVar(&outdir, "outdir", "outputs", "Output directory for CSVs")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
