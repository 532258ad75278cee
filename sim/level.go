package sim

// Block is one cache line's bookkeeping: created invalid at construction,
// valid on fill, dirty on a write hit or a write-allocate fill, invalid
// again on eviction.
type Block struct {
	Tag   uint64
	Valid bool
	Dirty bool
}

// LevelOutcome is the structured result of one lookup at one level.
// Misses are expected, not exceptional: the error return of LookupOrFill is
// reserved for invariant violations.
type LevelOutcome struct {
	Hit      bool
	SetIndex uint64
	Tag      uint64
	Evicted  *Block // the displaced block on a full-set miss; Dirty means write-back
}

// CacheLevel is a set-associative array of blocks governed by one
// replacement policy instance. Blocks are stored arena-style, indexed by
// set then by slot.
type CacheLevel struct {
	cfg     LevelConfig
	numSets int64
	policy  ReplacementPolicy
	blocks  [][]Block // [numSets][assoc]
}

// newCacheLevel builds an empty level from a validated config.
func newCacheLevel(cfg LevelConfig) (*CacheLevel, error) {
	numSets := cfg.NumSets()
	policy, err := newPolicy(cfg.Policy, numSets)
	if err != nil {
		return nil, err
	}
	blocks := make([][]Block, numSets)
	for i := range blocks {
		blocks[i] = make([]Block, cfg.Assoc)
	}
	return &CacheLevel{
		cfg:     cfg,
		numSets: numSets,
		policy:  policy,
		blocks:  blocks,
	}, nil
}

// Name returns the configured level name ("L1", "L2", ...).
func (l *CacheLevel) Name() string { return l.cfg.Name }

// LatencyNs returns the configured probe latency of this level.
func (l *CacheLevel) LatencyNs() int64 { return l.cfg.LatencyNs }

// Policy returns the configured replacement policy kind.
func (l *CacheLevel) Policy() PolicyKind { return l.cfg.Policy }

// mapAddr splits a byte address into this level's set index and tag.
// set = (addr / block_size) mod num_sets; tag = (addr / block_size) / num_sets.
func (l *CacheLevel) mapAddr(addr uint64) (set int64, tag uint64) {
	blockAddr := addr / uint64(l.cfg.BlockSize)
	return int64(blockAddr % uint64(l.numSets)), blockAddr / uint64(l.numSets)
}

// LookupOrFill performs one access at this level: on a hit it updates
// recency state (and dirtiness for writes); on a miss it fills the block,
// evicting a victim first if the set is full. Write misses follow
// write-allocate semantics: the filled block is immediately dirty.
func (l *CacheLevel) LookupOrFill(addr uint64, op Op) (LevelOutcome, error) {
	set, tag := l.mapAddr(addr)
	slots := l.blocks[set]

	hitSlot := -1
	freeSlot := -1
	for i := range slots {
		if !slots[i].Valid {
			if freeSlot < 0 {
				freeSlot = i
			}
			continue
		}
		if slots[i].Tag == tag {
			if hitSlot >= 0 {
				return LevelOutcome{}, invariantErrorf(
					"%s set %d holds duplicate valid tag %d", l.cfg.Name, set, tag)
			}
			hitSlot = i
		}
	}

	out := LevelOutcome{SetIndex: uint64(set), Tag: tag}

	if hitSlot >= 0 {
		out.Hit = true
		if op == OpWrite {
			// Write-back: dirty data is deferred until eviction.
			slots[hitSlot].Dirty = true
		}
		l.policy.OnHit(set, tag)
		return out, nil
	}

	fillSlot := freeSlot
	if fillSlot < 0 {
		resident := make([]uint64, 0, len(slots))
		for i := range slots {
			resident = append(resident, slots[i].Tag)
		}
		if int64(len(resident)) != l.cfg.Assoc {
			return LevelOutcome{}, invariantErrorf(
				"%s set %d victim requested with %d/%d blocks resident",
				l.cfg.Name, set, len(resident), l.cfg.Assoc)
		}
		victimTag, err := l.policy.SelectVictim(set, resident)
		if err != nil {
			return LevelOutcome{}, err
		}
		for i := range slots {
			if slots[i].Valid && slots[i].Tag == victimTag {
				fillSlot = i
				break
			}
		}
		if fillSlot < 0 {
			return LevelOutcome{}, invariantErrorf(
				"%s set %d: policy selected non-resident victim tag %d",
				l.cfg.Name, set, victimTag)
		}
		evicted := slots[fillSlot]
		out.Evicted = &evicted
		slots[fillSlot].Valid = false
		l.policy.OnEvict(set, victimTag)
	}

	slots[fillSlot] = Block{Tag: tag, Valid: true, Dirty: op == OpWrite}
	l.policy.OnFill(set, tag)
	return out, nil
}

// Resident reports whether the block containing addr is valid at this
// level. Used by inclusion checks; never mutates state.
func (l *CacheLevel) Resident(addr uint64) bool {
	set, tag := l.mapAddr(addr)
	for _, b := range l.blocks[set] {
		if b.Valid && b.Tag == tag {
			return true
		}
	}
	return false
}

// ValidBlocks returns the number of valid blocks in the given set.
// Used by capacity-invariant checks.
func (l *CacheLevel) ValidBlocks(set int64) int64 {
	var n int64
	for _, b := range l.blocks[set] {
		if b.Valid {
			n++
		}
	}
	return n
}
