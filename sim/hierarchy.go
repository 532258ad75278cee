package sim

import "github.com/sirupsen/logrus"

// Hierarchy owns an ordered sequence of cache levels (L1 first) plus the
// terminal memory sink, and drives each access through them. It exists for
// the lifetime of exactly one run; nothing is shared between concurrent
// runs, so sweeps parallelize by constructing independent instances.
type Hierarchy struct {
	cfg    Config
	levels []*CacheLevel
	pos    int64
	primed bool
}

// NewHierarchy validates the configuration and builds empty levels.
// Validation failures are ConfigurationErrors; the run never starts.
func NewHierarchy(cfg Config) (*Hierarchy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	levels := make([]*CacheLevel, 0, len(cfg.Levels))
	for _, lc := range cfg.Levels {
		lvl, err := newCacheLevel(lc)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return &Hierarchy{cfg: cfg, levels: levels}, nil
}

// Config returns the validated configuration this hierarchy was built from.
func (h *Hierarchy) Config() Config { return h.cfg }

// Levels exposes the levels for read-only inspection (names, residency).
func (h *Hierarchy) Levels() []*CacheLevel { return h.levels }

// needsLookahead reports whether any level runs OPT.
func (h *Hierarchy) needsLookahead() bool {
	for _, lc := range h.cfg.Levels {
		if lc.Policy == PolicyOPT {
			return true
		}
	}
	return false
}

// Prime runs the precomputation pass OPT requires: for every level using
// OPT it builds, per set, the queue of future access positions per tag.
// The stream passed here must be the exact stream later replayed through
// Access, in the same order. Prime is a no-op when no level uses OPT, and
// idempotent: a second call (Simulate primes internally) must not append
// the stream's positions again.
func (h *Hierarchy) Prime(stream []Access) {
	if h.primed {
		return
	}
	if !h.needsLookahead() {
		h.primed = true
		return
	}
	for _, lvl := range h.levels {
		opt, ok := lvl.policy.(*optPolicy)
		if !ok {
			continue
		}
		for pos, a := range stream {
			set, tag := lvl.mapAddr(a.Addr)
			opt.prime(int64(pos), set, tag)
		}
	}
	h.primed = true
	logrus.Debugf("lookahead primed over %d accesses", len(stream))
}

// Access drives one (address, op) pair through the hierarchy and returns
// its AccessEvent.
//
// Protocol: probe L1; on a hit the walk stops. On a miss the next level is
// probed, and so on; past the last level the fixed memory latency is added.
// Every traversed level is filled on the way, which is what enforces
// inclusion: a block resident in L1 is also resident in L2. A dirty
// eviction is counted as a write-back at its level but triggers no lookup
// at the next level — inclusion means the next level already holds the
// block, and that simplification is part of the reported cost model.
func (h *Hierarchy) Access(addr uint64, op Op) (AccessEvent, error) {
	if !h.primed && h.needsLookahead() {
		return AccessEvent{}, invariantErrorf("OPT level accessed before Prime")
	}
	pos := h.pos
	h.pos++

	// Advance lookahead queues at every level, probed or not. An L1 hit
	// still consumes this position from L2's future-use queues; otherwise
	// they go stale and victim selection is corrupted.
	for _, lvl := range h.levels {
		set, tag := lvl.mapAddr(addr)
		lvl.policy.Observe(pos, set, tag)
	}

	ev := AccessEvent{
		ID:       pos,
		Addr:     addr,
		Op:       op,
		HitLevel: -1,
		Levels:   make([]LevelAccess, 0, len(h.levels)),
	}

	for i, lvl := range h.levels {
		out, err := lvl.LookupOrFill(addr, op)
		if err != nil {
			return AccessEvent{}, err
		}
		ev.TotalLatency += lvl.LatencyNs()
		ev.Levels = append(ev.Levels, LevelAccess{
			Level:     lvl.Name(),
			Hit:       out.Hit,
			SetIndex:  out.SetIndex,
			Evicted:   out.Evicted != nil,
			WriteBack: out.Evicted != nil && out.Evicted.Dirty,
		})
		if out.Hit {
			ev.HitLevel = i
			break
		}
	}
	if ev.HitLevel < 0 {
		ev.TotalLatency += h.cfg.MemLatencyNs
	}
	return ev, nil
}

// Simulate replays a full address stream through the hierarchy, feeding
// each AccessEvent to the metrics accumulator (which the caller owns and
// may pass as nil). It primes OPT lookahead itself and returns the full
// event sequence.
func (h *Hierarchy) Simulate(stream []Access, m *Metrics) ([]AccessEvent, error) {
	h.Prime(stream)
	events := make([]AccessEvent, 0, len(stream))
	for _, a := range stream {
		ev, err := h.Access(a.Addr, a.Op)
		if err != nil {
			return nil, err
		}
		if m != nil {
			m.Record(ev)
		}
		events = append(events, ev)
	}
	return events, nil
}
