package sim

// fifoPolicy keeps, per set, the resident tags in arrival order. Hits never
// reorder; the earliest-filled resident block is always the victim.
type fifoPolicy struct {
	order [][]uint64 // indexed by set; earliest arrival at index 0
}

func newFIFOPolicy(numSets int64) *fifoPolicy {
	return &fifoPolicy{order: make([][]uint64, numSets)}
}

func (p *fifoPolicy) OnHit(set int64, tag uint64) {}

func (p *fifoPolicy) OnFill(set int64, tag uint64) {
	p.order[set] = append(p.order[set], tag)
}

func (p *fifoPolicy) OnEvict(set int64, tag uint64) {
	p.order[set] = removeTag(p.order[set], tag)
}

func (p *fifoPolicy) Observe(pos int64, set int64, tag uint64) {}

func (p *fifoPolicy) SelectVictim(set int64, resident []uint64) (uint64, error) {
	if len(p.order[set]) == 0 {
		return 0, invariantErrorf("FIFO victim requested for empty set %d", set)
	}
	return p.order[set][0], nil
}
