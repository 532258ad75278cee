package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	// GIVEN a full assoc-2 set where A was re-used after B was filled
	lvl := singleSetLevel(t, 2, PolicyLRU)
	mustAccess(t, lvl, tagAddr(1), OpRead) // fill A
	mustAccess(t, lvl, tagAddr(2), OpRead) // fill B
	mustAccess(t, lvl, tagAddr(1), OpRead) // hit A: B is now LRU

	// WHEN a third tag misses
	out, err := lvl.LookupOrFill(tagAddr(3), OpRead)
	require.NoError(t, err)

	// THEN B is the victim and A survives
	require.NotNil(t, out.Evicted)
	if out.Evicted.Tag != 2 {
		t.Errorf("victim tag = %d, want 2 (the LRU block)", out.Evicted.Tag)
	}
	if !lvl.Resident(tagAddr(1)) {
		t.Error("most recently used block must never be the victim")
	}
}

func TestLRU_RecencyChainAcrossManyAccesses(t *testing.T) {
	// The block touched most recently is never chosen while an older
	// resident exists: rotate through a full set and check each eviction.
	lvl := singleSetLevel(t, 4, PolicyLRU)
	for tag := uint64(0); tag < 4; tag++ {
		mustAccess(t, lvl, tagAddr(tag), OpRead)
	}
	// Re-touch in reverse so recency order is 3, 2, 1, 0 (MRU last).
	for tag := uint64(3); ; tag-- {
		mustAccess(t, lvl, tagAddr(tag), OpRead)
		if tag == 0 {
			break
		}
	}
	// Evictions must come out 3, 2, 1 as fresh tags pour in.
	for i, want := range []uint64{3, 2, 1} {
		out, err := lvl.LookupOrFill(tagAddr(uint64(10+i)), OpRead)
		require.NoError(t, err)
		require.NotNil(t, out.Evicted)
		if out.Evicted.Tag != want {
			t.Fatalf("eviction %d: victim tag = %d, want %d", i, out.Evicted.Tag, want)
		}
	}
}

func mustAccess(t *testing.T, lvl *CacheLevel, addr uint64, op Op) LevelOutcome {
	t.Helper()
	out, err := lvl.LookupOrFill(addr, op)
	require.NoError(t, err)
	return out
}
