package move

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/intent"
)

const (
	// AccelDotThreshold is the minimum dot product between two normalized accelerations for the
	// moves holding them to be combined.
	AccelDotThreshold = 0.999
	// AccelMagThreshold is the maximum difference in acceleration magnitude between two moves
	// that can be combined.
	AccelMagThreshold = 1.0
)

// BaseMove is the engine-owned part of a saved move.
type BaseMove struct {
	// Sequence is the client sequence number of the last tick covered by the move.
	Sequence uint32
	// Ticks is the amount of client ticks covered by the move. It is 1 until the move is merged.
	Ticks uint16
	// Delta is the total time covered by the move.
	Delta float32
	// Accel is the input acceleration applied during the move.
	Accel mgl32.Vec3
	// Yaw is the facing of the actor during the move, in radians.
	Yaw float32
	// EngineFlags holds the engine's own compressed flags (jump, crouch).
	EngineFlags byte

	StartPos, StartVel mgl32.Vec3
	// EndPos is the position the client predicted at the end of the move.
	EndPos mgl32.Vec3
}

// Base ...
func (m *BaseMove) Base() *BaseMove {
	return m
}

// Capture stores the base move given. The engine's default snapshot carries no ability state,
// so the intent is ignored.
func (m *BaseMove) Capture(_ *intent.Intent, base BaseMove) {
	*m = base
	if m.Ticks == 0 {
		m.Ticks = 1
	}
}

// ApplyTo is a no-op for the engine's default snapshot.
func (m *BaseMove) ApplyTo(*intent.Intent) {}

// CompressedFlags returns the engine flags of the move.
func (m *BaseMove) CompressedFlags() byte {
	return m.EngineFlags
}

// CanCombineWith returns true if next can be folded into m without the server noticing a
// difference larger than the engine tolerates.
func (m *BaseMove) CanCombineWith(next Snapshot, maxDelta float32) bool {
	return m.canCombineBase(next.Base(), maxDelta)
}

// Merge folds next into m.
func (m *BaseMove) Merge(next Snapshot) {
	m.mergeBase(next.Base())
}

// Clear resets the move so that it may be reused.
func (m *BaseMove) Clear() {
	*m = BaseMove{}
}

func (m *BaseMove) canCombineBase(next *BaseMove, maxDelta float32) bool {
	if m.EngineFlags != next.EngineFlags || m.Yaw != next.Yaw {
		return false
	}
	if m.Delta+next.Delta > maxDelta {
		return false
	}
	if isZero(m.StartVel) != isZero(next.StartVel) {
		return false
	}

	zeroAccel, nextZeroAccel := isZero(m.Accel), isZero(next.Accel)
	if zeroAccel != nextZeroAccel {
		return false
	}
	if zeroAccel {
		return true
	}

	if math32.Abs(m.Accel.Len()-next.Accel.Len()) > AccelMagThreshold {
		return false
	}
	return m.Accel.Normalize().Dot(next.Accel.Normalize()) >= AccelDotThreshold
}

func (m *BaseMove) mergeBase(next *BaseMove) {
	m.Sequence = next.Sequence
	m.Ticks += next.Ticks
	m.Delta += next.Delta
	m.EndPos = next.EndPos
}

func isZero(v mgl32.Vec3) bool {
	return v.LenSqr() < 1e-12
}
