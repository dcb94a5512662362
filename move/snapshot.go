package move

import "github.com/oomph-ac/movement/intent"

// Snapshot is a buffered per-tick move. The engine only ever handles moves through this
// interface; custom movement supplies its own implementation through an Allocator.
type Snapshot interface {
	// Base returns the engine-owned part of the move.
	Base() *BaseMove
	// Capture fills the snapshot from the current intent and the base move given.
	Capture(i *intent.Intent, base BaseMove)
	// ApplyTo writes the captured state back onto an intent before the move is replayed.
	ApplyTo(i *intent.Intent)
	// CanCombineWith returns true if next may be merged into the snapshot.
	CanCombineWith(next Snapshot, maxDelta float32) bool
	// Merge folds next into the snapshot. Callers must check CanCombineWith first.
	Merge(next Snapshot)
	// CompressedFlags returns the flags byte sent along with the move.
	CompressedFlags() byte
	// Clear resets the snapshot so it may be reused.
	Clear()
}

// Allocator returns a fresh, empty snapshot.
type Allocator func() Snapshot

// DefaultAllocator allocates the engine's default snapshot, which carries no ability state.
func DefaultAllocator() Snapshot {
	return &BaseMove{}
}

// SavedMoveAllocator allocates ability-aware saved moves.
func SavedMoveAllocator() Snapshot {
	return &SavedMove{}
}
