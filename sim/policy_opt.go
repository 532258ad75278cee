package sim

// optPolicy implements Belady's OPT: the victim is the resident block whose
// next use lies farthest in the future, with blocks that are never touched
// again strictly preferred. It requires a precomputation pass over the whole
// address stream (see prime) before the simulation starts.
//
// The future-use data is a per-set mapping from tag to the ordered queue of
// stream positions that will touch that tag in that set. Queues are consumed
// front-to-back as the run advances, so a victim scan only peeks at each
// resident tag's queue head: cost is bounded by the associativity of one
// set, not by a rescan of the remaining stream.
type optPolicy struct {
	sets []map[uint64]*futureQueue // indexed by set; tag -> future positions
}

// futureQueue is the ordered sequence of future access positions for one
// tag within one set. head indexes the next pending position; the backing
// slice is built once during prime and never reallocated.
type futureQueue struct {
	pos  []int64
	head int
}

// next returns the earliest pending position, or false if the tag is never
// accessed again.
func (q *futureQueue) next() (int64, bool) {
	if q == nil || q.head >= len(q.pos) {
		return 0, false
	}
	return q.pos[q.head], true
}

// consume pops position p off the queue head if it is the current entry.
func (q *futureQueue) consume(p int64) {
	if q != nil && q.head < len(q.pos) && q.pos[q.head] == p {
		q.head++
	}
}

func newOPTPolicy(numSets int64) *optPolicy {
	sets := make([]map[uint64]*futureQueue, numSets)
	for i := range sets {
		sets[i] = make(map[uint64]*futureQueue)
	}
	return &optPolicy{sets: sets}
}

// prime records one future access position. Positions must be appended in
// stream order; the hierarchy feeds every access of the stream through this
// before the run starts.
func (p *optPolicy) prime(pos int64, set int64, tag uint64) {
	q := p.sets[set][tag]
	if q == nil {
		q = &futureQueue{}
		p.sets[set][tag] = q
	}
	q.pos = append(q.pos, pos)
}

// Observe consumes the current position from the tag's queue so that every
// remaining entry is strictly in the future. The hierarchy calls it for
// every access, including accesses this level never sees because a closer
// level hit; skipping those would leave stale entries and corrupt victim
// selection. The OnHit/OnFill hooks deliberately do not consume again.
func (p *optPolicy) Observe(pos int64, set int64, tag uint64) {
	p.sets[set][tag].consume(pos)
}

func (p *optPolicy) OnHit(set int64, tag uint64) {}

func (p *optPolicy) OnFill(set int64, tag uint64) {}

func (p *optPolicy) OnEvict(set int64, tag uint64) {
	// Future-use queues outlive residency: an evicted tag may be filled
	// again later in the run and still needs its remaining positions.
}

// SelectVictim scans only the tags currently resident in the set. A tag
// with an exhausted queue (never referenced again) always wins over one
// with any pending future use; otherwise the numerically largest next-use
// position (farthest future) wins. Ties break toward the smallest tag so
// runs are deterministic.
func (p *optPolicy) SelectVictim(set int64, resident []uint64) (uint64, error) {
	if len(resident) == 0 {
		return 0, invariantErrorf("OPT victim requested for empty set %d", set)
	}
	var (
		victim      uint64
		victimNever bool
		victimNext  int64
		haveVictim  bool
	)
	for _, tag := range resident {
		next, ok := p.sets[set][tag].next()
		never := !ok
		better := false
		switch {
		case !haveVictim:
			better = true
		case never != victimNever:
			better = never
		case never:
			better = tag < victim
		case next != victimNext:
			better = next > victimNext
		default:
			better = tag < victim
		}
		if better {
			victim, victimNever, victimNext, haveVictim = tag, never, next, true
		}
	}
	return victim, nil
}
