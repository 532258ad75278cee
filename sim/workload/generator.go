package workload

import (
	"fmt"
	"math/rand"

	"github.com/cache-sim/cache-sim/sim"
)

// Generate produces a synthetic address stream from a Spec.
// Deterministic given the same spec (including seed).
//
// Each iteration draws one of three modes:
//   - sequential: a burst of 8..64 consecutive blocks from a random
//     block-aligned start, wrapping at the end of the address space
//   - hot: a block-aligned access inside a hot region covering 10% of the
//     address space (at least one block)
//   - uniform: a block-aligned access anywhere in the address space
//
// Every access is a write with probability WriteRatio, else a read.
func Generate(spec *Spec) ([]sim.Access, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed)).
		ForSubsystem(sim.SubsystemWorkload)

	space := spec.AddressSpaceKB * 1024
	block := spec.BlockSize
	hotSpace := space / 10
	if hotSpace < block {
		hotSpace = block
	}

	stream := make([]sim.Access, 0, spec.Accesses)
	appendAccess := func(addr int64) {
		op := sim.OpRead
		if rng.Float64() < spec.WriteRatio {
			op = sim.OpWrite
		}
		stream = append(stream, sim.Access{
			ID:   int64(len(stream)),
			Op:   op,
			Addr: uint64(addr),
		})
	}

	for int64(len(stream)) < spec.Accesses {
		mode := rng.Float64()
		switch {
		case mode < spec.SeqFrac:
			start := alignedBelow(rng, max64(block, space-64*block), block)
			length := 8 + int64(rng.Intn(57)) // burst of 8..64 blocks
			for j := int64(0); j < length && int64(len(stream)) < spec.Accesses; j++ {
				appendAccess((start + j*block) % space)
			}
		case mode < spec.SeqFrac+spec.HotFrac:
			base := alignedBelow(rng, max64(1, space-hotSpace), block)
			offset := rng.Int63n(max64(1, hotSpace/block)) * block
			appendAccess(base + offset)
		default:
			appendAccess(rng.Int63n(max64(1, space/block)) * block)
		}
	}
	return stream, nil
}

// alignedBelow draws a uniform multiple of step in [0, limit).
func alignedBelow(rng *rand.Rand, limit, step int64) int64 {
	n := (limit + step - 1) / step
	if n <= 0 {
		return 0
	}
	return rng.Int63n(n) * step
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
