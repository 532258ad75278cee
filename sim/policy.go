package sim

// ReplacementPolicy tracks per-set residency bookkeeping for one cache level
// and selects a victim block when a full set takes a miss.
//
// Per-set state is arena-style: each implementation owns a flat array
// indexed by set number, never a graph of cross-referencing objects. All
// bookkeeping is keyed by tag within a set.
type ReplacementPolicy interface {
	// OnHit records a hit on a resident tag.
	OnHit(set int64, tag uint64)

	// OnFill records a fill of a tag into a free (or freshly vacated) slot.
	OnFill(set int64, tag uint64)

	// OnEvict removes a tag from the policy's residency bookkeeping after
	// the level has evicted it.
	OnEvict(set int64, tag uint64)

	// Observe advances any lookahead bookkeeping for the access at stream
	// position pos touching (set, tag). The hierarchy calls it for every
	// level on every access, whether or not the level is probed; only OPT
	// does anything with it.
	Observe(pos int64, set int64, tag uint64)

	// SelectVictim returns the tag to evict, chosen among the tags
	// currently resident in the set. Called only when the set is full.
	// The scan is bounded by the associativity of one set, never by the
	// length of the address stream.
	SelectVictim(set int64, resident []uint64) (uint64, error)
}

// newPolicy constructs the policy instance for one level. The policy set is
// fixed; cfg.Policy has already been validated so the default arm is a
// construction-time guard, not a user error path.
func newPolicy(kind PolicyKind, numSets int64) (ReplacementPolicy, error) {
	switch kind {
	case PolicyLRU:
		return newLRUPolicy(numSets), nil
	case PolicyFIFO:
		return newFIFOPolicy(numSets), nil
	case PolicyOPT:
		return newOPTPolicy(numSets), nil
	default:
		return nil, configErrorf("unknown policy %q; valid: LRU, FIFO, OPT", kind)
	}
}

// removeTag deletes the first occurrence of tag from an order list,
// preserving the order of the remaining tags.
func removeTag(order []uint64, tag uint64) []uint64 {
	for i, t := range order {
		if t == tag {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
