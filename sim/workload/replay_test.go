package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cache-sim/cache-sim/sim"
)

func writeTraceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReplay_ParsesOpsAndAddresses(t *testing.T) {
	path := writeTraceFile(t, "op,address\nR,0\nW,4096\nR,128\n")
	stream, err := Replay(path)
	require.NoError(t, err)
	assert.Equal(t, []sim.Access{
		{ID: 0, Op: sim.OpRead, Addr: 0},
		{ID: 1, Op: sim.OpWrite, Addr: 4096},
		{ID: 2, Op: sim.OpRead, Addr: 128},
	}, stream)
}

func TestReplay_HeaderIsOptional(t *testing.T) {
	path := writeTraceFile(t, "W,64\nR,0\n")
	stream, err := Replay(path)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, sim.OpWrite, stream[0].Op)
}

func TestReplay_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown op", "X,64\n"},
		{"non-numeric address", "R,abc\n"},
		{"negative address", "R,-64\n"},
		{"wrong column count", "R,64,extra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(writeTraceFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestReplay_MissingFile(t *testing.T) {
	_, err := Replay(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
