package ability

import "github.com/oomph-ac/movement/assert"

// Config holds the tuning of every ability.
type Config struct {
	TeleportDistance   float32
	ClipSafetyDistance float32

	JetpackInitialForce float32
	JetpackMaxForce     float32
	JetpackIncreaseRate float32

	WallJumpVelocity     float32
	WallJumpLateralForce float32
}

// RuntimeState is the per-actor state evolved by executors across ticks.
type RuntimeState struct {
	JetpackForce  float32
	JetpackActive bool
}

// Set is the ordered collection of executors owned by a single actor.
type Set struct {
	teleport *Teleport
	jetpack  *Jetpack
	wallJump *WallJump

	executors []Executor
}

// NewSet returns the executors for the configuration given, ordered by flag.
func NewSet(conf Config) *Set {
	s := &Set{
		teleport: &Teleport{Distance: conf.TeleportDistance, ClipSafetyDistance: conf.ClipSafetyDistance},
		jetpack:  NewJetpack(conf.JetpackInitialForce, conf.JetpackMaxForce, conf.JetpackIncreaseRate),
		wallJump: &WallJump{JumpVelocity: conf.WallJumpVelocity, LateralForce: conf.WallJumpLateralForce},
	}
	s.executors = []Executor{s.teleport, s.jetpack, s.wallJump}
	for i, e := range s.executors {
		assert.IsTrue(int(e.Flag()) == i, "executor for %v registered at position %d", e.Flag(), i)
	}
	return s
}

// Run executes every ability in flag order and returns how many had an effect.
func (s *Set) Run(ctx *Context) int {
	n := 0
	for _, e := range s.executors {
		if e.Execute(ctx) {
			n++
		}
	}
	return n
}

// Jetpack returns the jetpack executor of the set.
func (s *Set) Jetpack() *Jetpack {
	return s.jetpack
}

// State returns the runtime state of the set.
func (s *Set) State() RuntimeState {
	return RuntimeState{JetpackForce: s.jetpack.force, JetpackActive: s.jetpack.active}
}

// Restore overwrites the runtime state of the set, usually before replaying moves on top of an
// authoritative correction.
func (s *Set) Restore(state RuntimeState) {
	s.jetpack.force = state.JetpackForce
	s.jetpack.active = state.JetpackActive
}
