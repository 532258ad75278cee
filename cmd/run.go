package cmd

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runCmd executes one simulation using parameters from CLI flags.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single cache hierarchy simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if err := validateLevelCount(numLevels); err != nil {
			logrus.Fatalf("%v", err)
		}

		cfg := buildConfig(l1Policy, l2Policy, l1Assoc, blockSize)
		spec, err := buildWorkloadSpec(blockSize, seqFrac, hotFrac)
		if err != nil {
			logrus.Fatalf("workload spec: %v", err)
		}
		stream, err := loadStream(spec)
		if err != nil {
			logrus.Fatalf("address stream: %v", err)
		}

		eventsPath, resultsPath, err := prepareOutdir()
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		runID := "custom_" + xid.New().String()
		_, summary, err := executeRun(runID, cfg, spec, stream, eventsPath, resultsPath)
		if err != nil {
			logrus.Fatalf("run %s failed: %v", runID, err)
		}
		summary.Print()

		logrus.Info("Simulation complete.")
	},
}

func init() {
	addSimFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
