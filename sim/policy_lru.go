package sim

// lruPolicy keeps, per set, the resident tags ordered by recency of use:
// least recently used first, most recently used last. Hits and fills both
// move the tag to the MRU end.
type lruPolicy struct {
	order [][]uint64 // indexed by set; LRU at index 0
}

func newLRUPolicy(numSets int64) *lruPolicy {
	return &lruPolicy{order: make([][]uint64, numSets)}
}

func (p *lruPolicy) OnHit(set int64, tag uint64) {
	p.order[set] = append(removeTag(p.order[set], tag), tag)
}

func (p *lruPolicy) OnFill(set int64, tag uint64) {
	p.order[set] = append(p.order[set], tag)
}

func (p *lruPolicy) OnEvict(set int64, tag uint64) {
	p.order[set] = removeTag(p.order[set], tag)
}

func (p *lruPolicy) Observe(pos int64, set int64, tag uint64) {}

func (p *lruPolicy) SelectVictim(set int64, resident []uint64) (uint64, error) {
	if len(p.order[set]) == 0 {
		return 0, invariantErrorf("LRU victim requested for empty set %d", set)
	}
	return p.order[set][0], nil
}
