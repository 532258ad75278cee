// Package workload generates the address streams the engine consumes:
// synthetic traffic mixing sequential bursts, a hot region, and uniform
// random accesses, or replay of a recorded trace. Generation is fully
// deterministic from the spec's seed.
package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec parameterizes synthetic address-stream generation.
// Loaded from YAML via Load(path) or built directly from CLI flags.
type Spec struct {
	Seed           int64   `yaml:"seed"`
	Accesses       int64   `yaml:"accesses"`
	AddressSpaceKB int64   `yaml:"address_space_kb"`
	BlockSize      int64   `yaml:"block_size"`
	SeqFrac        float64 `yaml:"seq_frac"`
	HotFrac        float64 `yaml:"hot_frac"`
	WriteRatio     float64 `yaml:"write_ratio"`
}

// Load reads and parses a YAML workload spec file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are usable.
func (s *Spec) Validate() error {
	if s.Accesses <= 0 {
		return fmt.Errorf("accesses must be positive, got %d", s.Accesses)
	}
	if s.AddressSpaceKB <= 0 {
		return fmt.Errorf("address_space_kb must be positive, got %d", s.AddressSpaceKB)
	}
	if s.BlockSize <= 0 {
		return fmt.Errorf("block_size must be positive, got %d", s.BlockSize)
	}
	if s.AddressSpaceKB*1024 < s.BlockSize {
		return fmt.Errorf("address space %dKB smaller than one %dB block", s.AddressSpaceKB, s.BlockSize)
	}
	for name, frac := range map[string]float64{
		"seq_frac": s.SeqFrac, "hot_frac": s.HotFrac, "write_ratio": s.WriteRatio,
	} {
		if frac < 0 || frac > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %f", name, frac)
		}
	}
	if s.SeqFrac+s.HotFrac > 1 {
		return fmt.Errorf("seq_frac + hot_frac must not exceed 1, got %f", s.SeqFrac+s.HotFrac)
	}
	return nil
}
