package sim

// PolicyKind names a block replacement policy. The set is closed: every
// level is configured with exactly one of LRU, FIFO, or OPT, and policy
// dispatch happens once at construction time.
type PolicyKind string

const (
	// PolicyLRU evicts the least recently used resident block.
	PolicyLRU PolicyKind = "LRU"
	// PolicyFIFO evicts the earliest-filled resident block, ignoring hits.
	PolicyFIFO PolicyKind = "FIFO"
	// PolicyOPT is Belady's oracle: evicts the resident block whose next
	// use lies farthest in the future (or never comes).
	PolicyOPT PolicyKind = "OPT"
)

// ParsePolicyKind validates a policy name from a flag or config file.
func ParsePolicyKind(s string) (PolicyKind, error) {
	switch PolicyKind(s) {
	case PolicyLRU, PolicyFIFO, PolicyOPT:
		return PolicyKind(s), nil
	default:
		return "", configErrorf("unknown policy %q; valid: LRU, FIFO, OPT", s)
	}
}

// LevelConfig describes the geometry, latency, and replacement policy of
// one cache level.
type LevelConfig struct {
	Name      string     `yaml:"name"`
	SizeKB    int64      `yaml:"size_kb"`
	Assoc     int64      `yaml:"assoc"`
	BlockSize int64      `yaml:"block_size"`
	LatencyNs int64      `yaml:"latency_ns"`
	Policy    PolicyKind `yaml:"policy"`
}

// NumSets returns the derived set count, size / (assoc * block_size).
// Only meaningful after Validate has accepted the level.
func (c LevelConfig) NumSets() int64 {
	return c.SizeKB * 1024 / (c.Assoc * c.BlockSize)
}

// Validate checks the level geometry: the size must divide evenly into
// assoc-many blocks per set, and the resulting set count must be a power
// of two so that set indexing is a pure bit slice of the block address.
func (c LevelConfig) Validate() error {
	if c.SizeKB <= 0 {
		return configErrorf("level %s: size_kb must be positive, got %d", c.Name, c.SizeKB)
	}
	if c.Assoc <= 0 {
		return configErrorf("level %s: assoc must be positive, got %d", c.Name, c.Assoc)
	}
	if c.BlockSize <= 0 {
		return configErrorf("level %s: block_size must be positive, got %d", c.Name, c.BlockSize)
	}
	if c.LatencyNs < 0 {
		return configErrorf("level %s: latency_ns must be non-negative, got %d", c.Name, c.LatencyNs)
	}
	sizeBytes := c.SizeKB * 1024
	if sizeBytes%(c.Assoc*c.BlockSize) != 0 {
		return configErrorf("level %s: size %dB not divisible by assoc*block_size (%d*%d)",
			c.Name, sizeBytes, c.Assoc, c.BlockSize)
	}
	numSets := sizeBytes / (c.Assoc * c.BlockSize)
	if numSets == 0 {
		return configErrorf("level %s: size %dB holds no full set of %d blocks of %dB",
			c.Name, sizeBytes, c.Assoc, c.BlockSize)
	}
	if numSets&(numSets-1) != 0 {
		return configErrorf("level %s: set count %d is not a power of two", c.Name, numSets)
	}
	if _, err := ParsePolicyKind(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

// Config describes a full hierarchy: an ordered list of cache levels
// (L1 first) and the latency of the terminal memory sink.
type Config struct {
	Levels       []LevelConfig `yaml:"levels"`
	MemLatencyNs int64         `yaml:"mem_latency_ns"`
}

// Validate checks every level and the memory latency. It is called by
// NewHierarchy; a Config that fails validation never produces a run.
func (c Config) Validate() error {
	if len(c.Levels) == 0 {
		return configErrorf("at least one cache level required")
	}
	if c.MemLatencyNs < 0 {
		return configErrorf("mem_latency_ns must be non-negative, got %d", c.MemLatencyNs)
	}
	for _, lvl := range c.Levels {
		if err := lvl.Validate(); err != nil {
			return err
		}
	}
	return nil
}
