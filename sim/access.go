package sim

import "fmt"

// Op is the kind of memory operation in an address stream.
type Op uint8

const (
	// OpRead is a load from memory.
	OpRead Op = iota
	// OpWrite is a store to memory.
	OpWrite
)

// String returns the single-letter trace encoding of the operation.
func (o Op) String() string {
	if o == OpWrite {
		return "W"
	}
	return "R"
}

// ParseOp parses the trace encoding ("R" or "W") of an operation.
func ParseOp(s string) (Op, error) {
	switch s {
	case "R":
		return OpRead, nil
	case "W":
		return OpWrite, nil
	default:
		return OpRead, fmt.Errorf("unknown operation %q; valid: R, W", s)
	}
}

// Access is one element of an address stream: a byte address and the
// operation performed on it. ID is the position within the stream and
// doubles as the simulation tick for lookahead bookkeeping.
type Access struct {
	ID   int64
	Op   Op
	Addr uint64
}

// LevelAccess is the slice of an AccessEvent contributed by one probed
// cache level.
type LevelAccess struct {
	Level     string // level name ("L1", "L2", ...)
	Hit       bool
	SetIndex  uint64
	Evicted   bool // a resident block was displaced by the fill
	WriteBack bool // the displaced block was dirty
}

// AccessEvent is the immutable outcome of one access through the hierarchy.
// Levels holds one entry per probed level, L1 first; levels below the
// hitting level are not probed and have no entry.
type AccessEvent struct {
	ID           int64
	Addr         uint64
	Op           Op
	HitLevel     int // index into Levels of the hitting level; -1 if memory satisfied the access
	TotalLatency int64
	Levels       []LevelAccess
}

// HitLevelName returns the name of the level that satisfied the access,
// or "Memory" when every cache level missed.
func (ev AccessEvent) HitLevelName() string {
	if ev.HitLevel < 0 {
		return "Memory"
	}
	return ev.Levels[ev.HitLevel].Level
}
