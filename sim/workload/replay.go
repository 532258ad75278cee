package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cache-sim/cache-sim/sim"
)

// Replay loads a recorded address stream from a CSV trace file.
//
// Format: two columns, "op,address", with op one of R/W and address an
// unsigned decimal byte address. A header row with those column names is
// accepted and skipped.
func Replay(path string) ([]sim.Access, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()
	return parseTrace(csv.NewReader(f))
}

func parseTrace(r *csv.Reader) ([]sim.Access, error) {
	r.FieldsPerRecord = 2
	var stream []sim.Access
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading trace: %w", err)
		}
		if len(stream) == 0 && row[0] == "op" && row[1] == "address" {
			continue // header row
		}
		op, err := sim.ParseOp(row[0])
		if err != nil {
			return nil, fmt.Errorf("trace row %d: %w", len(stream)+1, err)
		}
		addr, err := strconv.ParseUint(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("trace row %d: bad address %q", len(stream)+1, row[1])
		}
		stream = append(stream, sim.Access{
			ID:   int64(len(stream)),
			Op:   op,
			Addr: addr,
		})
	}
	return stream, nil
}
