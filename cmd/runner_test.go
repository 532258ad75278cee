package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/workload"
)

func smallConfig() sim.Config {
	return sim.Config{
		MemLatencyNs: 100,
		Levels: []sim.LevelConfig{
			{Name: "L1", SizeKB: 1, Assoc: 2, BlockSize: 64, LatencyNs: 4, Policy: sim.PolicyLRU},
			{Name: "L2", SizeKB: 4, Assoc: 4, BlockSize: 64, LatencyNs: 12, Policy: sim.PolicyLRU},
		},
	}
}

func smallSpec() *workload.Spec {
	return &workload.Spec{
		Seed: 42, Accesses: 500, AddressSpaceKB: 8, BlockSize: 64,
		SeqFrac: 0.5, HotFrac: 0.3, WriteRatio: 0.1,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExecuteRun_WritesEventsAndAppendsResults(t *testing.T) {
	dir := t.TempDir()
	eventsPath := filepath.Join(dir, "events.csv")
	resultsPath := filepath.Join(dir, "results.csv")

	spec := smallSpec()
	stream, err := workload.Generate(spec)
	require.NoError(t, err)

	result, summary, err := executeRun("run_a", smallConfig(), spec, stream, eventsPath, resultsPath)
	require.NoError(t, err)
	assert.Equal(t, "run_a", result.RunID)
	assert.Equal(t, int64(500), result.Accesses)
	assert.Equal(t, summary.AMATNs, result.AMATNs)

	// events.csv: header plus one row per access, tagged with the run ID.
	events := readCSV(t, eventsPath)
	require.Len(t, events, 501)
	assert.Equal(t, "run_id", events[0][0])
	assert.Equal(t, "run_a", events[1][0])

	// The embedded config JSON round-trips.
	var cfgPayload struct {
		Levels       []sim.LevelConfig `json:"levels"`
		MemLatencyNs int64             `json:"memory_latency_ns"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.ConfigJSON), &cfgPayload))
	require.Len(t, cfgPayload.Levels, 2)
	assert.Equal(t, int64(100), cfgPayload.MemLatencyNs)

	// A second run appends to results.csv without repeating the header and
	// truncates events.csv.
	_, _, err = executeRun("run_b", smallConfig(), spec, stream, eventsPath, resultsPath)
	require.NoError(t, err)

	results := readCSV(t, resultsPath)
	require.Len(t, results, 3)
	assert.Equal(t, "run_id", results[0][0])
	assert.Equal(t, "run_a", results[1][0])
	assert.Equal(t, "run_b", results[2][0])

	events = readCSV(t, eventsPath)
	require.Len(t, events, 501)
	assert.Equal(t, "run_b", events[1][0])
}

func TestExecuteRun_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	cfg.Levels[0].Assoc = 3 // 1KB/(3*64B) is not a whole power-of-two set count

	_, _, err := executeRun("bad", cfg, smallSpec(), nil,
		filepath.Join(dir, "events.csv"), filepath.Join(dir, "results.csv"))
	var cfgErr *sim.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBuildConfig_LevelCountFollowsFlag(t *testing.T) {
	numLevels = 1
	l1SizeKB, l1LatencyNs, memLatency = 32, 4, 100
	cfg := buildConfig("LRU", "LRU", 8, 64)
	assert.Len(t, cfg.Levels, 1)

	numLevels = 2
	l2SizeKB, l2Assoc, l2LatencyNs = 256, 8, 12
	cfg = buildConfig("LRU", "OPT", 8, 64)
	require.Len(t, cfg.Levels, 2)
	assert.Equal(t, sim.PolicyOPT, cfg.Levels[1].Policy)
	assert.Equal(t, int64(64), cfg.Levels[1].BlockSize)
}

func TestValidateLevelCount_SharedByRunAndSweep(t *testing.T) {
	for _, n := range []int{1, 2} {
		assert.NoError(t, validateLevelCount(n))
	}
	for _, n := range []int{0, -1, 3, 5} {
		assert.Error(t, validateLevelCount(n), "levels=%d must be rejected", n)
	}
}

func TestBuildWorkloadSpec_FileOverridesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"seed: 9\naccesses: 123\naddress_space_kb: 64\nblock_size: 64\n"), 0o644))

	workloadFile = path
	defer func() { workloadFile = "" }()

	spec, err := buildWorkloadSpec(64, 0.5, 0.3)
	require.NoError(t, err)
	assert.Equal(t, int64(123), spec.Accesses)
	assert.Equal(t, int64(9), spec.Seed)
}
