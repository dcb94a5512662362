package move

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/assert"
	"github.com/oomph-ac/movement/intent"
)

// SavedMove is a BaseMove that also remembers the ability flags held while it was captured.
type SavedMove struct {
	BaseMove
	// Flags is the ability bitmask captured from the intent.
	Flags byte
	// WallNormal is the wall normal held by the intent, so that a replayed wall jump pushes off
	// the wall it was captured with.
	WallNormal mgl32.Vec3
}

// CaptureFrom returns a saved move holding the booleans of the intent and the base move given.
// The intent is only read.
func CaptureFrom(i *intent.Intent, base BaseMove) *SavedMove {
	m := &SavedMove{}
	m.Capture(i, base)
	return m
}

// CanCombine returns true if b may be merged into a: every ability flag must match and the
// engine's own predicate must hold. Moves held against different walls are never combined.
func CanCombine(a, b *SavedMove, maxDelta float32) bool {
	if a.Flags != b.Flags || a.WallNormal != b.WallNormal {
		return false
	}
	return a.canCombineBase(&b.BaseMove, maxDelta)
}

// Capture ...
func (m *SavedMove) Capture(i *intent.Intent, base BaseMove) {
	m.BaseMove.Capture(i, base)
	m.Flags = intent.Encode(*i)
	m.WallNormal = i.WallNormal
}

// ApplyTo writes the captured ability flags and wall normal onto the intent.
func (m *SavedMove) ApplyTo(i *intent.Intent) {
	i.WallNormal = m.WallNormal
	decoded := intent.Decode(m.Flags)
	for f := range intent.Flags() {
		i.SetFlag(f, decoded.Flag(f))
	}
}

// CanCombineWith returns false for snapshots that are not saved moves, since their ability
// state is unknown.
func (m *SavedMove) CanCombineWith(next Snapshot, maxDelta float32) bool {
	n, ok := next.(*SavedMove)
	if !ok {
		return false
	}
	return CanCombine(m, n, maxDelta)
}

// Merge folds next into m. The ability flags are left untouched as they are equal by precondition.
func (m *SavedMove) Merge(next Snapshot) {
	n, ok := next.(*SavedMove)
	assert.IsTrue(ok, "cannot merge %T into a saved move", next)
	assert.IsTrue(n.Flags == m.Flags, "merging saved moves with different flags (%03b != %03b)", m.Flags, n.Flags)
	m.mergeBase(&n.BaseMove)
}

// CompressedFlags returns the engine flags with the ability bits in the custom section.
func (m *SavedMove) CompressedFlags() byte {
	return m.EngineFlags | m.Flags<<intent.CustomFlagOffset
}

// Clear ...
func (m *SavedMove) Clear() {
	m.BaseMove.Clear()
	m.Flags = 0
	m.WallNormal = mgl32.Vec3{}
}
