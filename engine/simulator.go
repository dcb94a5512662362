package engine

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Options configure the simulator.
type Options struct {
	// Gravity is the downward acceleration applied outside of ModeFlying.
	Gravity float32
	// JumpVelocity is the vertical velocity set when jumping from the ground.
	JumpVelocity float32
	// BrakingFriction slows horizontal movement on the ground without input acceleration.
	BrakingFriction float32
	// FlyingDrag slows vertical movement in ModeFlying.
	FlyingDrag float32
	// GroundHeight is the height of the ground plane.
	GroundHeight float32

	// Debugf receives simulation traces when set.
	Debugf func(format string, args ...any)
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Gravity:         980,
		JumpVelocity:    420,
		BrakingFriction: 8,
		FlyingDrag:      2,
	}
}

// Input is a single step of movement input.
type Input struct {
	Delta float32
	Accel mgl32.Vec3
	Yaw   float32
	Flags byte
	// MaxSpeed is the horizontal speed limit while accelerating.
	MaxSpeed float32
}

// Simulator integrates the movement of a body. It does not resolve collisions other than the
// ground plane: solid geometry is only consulted by ability traces.
type Simulator struct {
	Options Options
}

// Simulate runs one step of movement for the state given.
func (s *Simulator) Simulate(state *State, input Input) {
	if state == nil || input.Delta <= 0 {
		return
	}
	state.teleported = false
	state.yaw = input.Yaw

	vel := state.vel
	dt := input.Delta

	hzAccel := mgl32.Vec2{input.Accel.X(), input.Accel.Y()}
	if hzAccel.LenSqr() > 0 {
		vel[0] += hzAccel.X() * dt
		vel[1] += hzAccel.Y() * dt
		if hz := (mgl32.Vec2{vel[0], vel[1]}); input.MaxSpeed > 0 && hz.Len() > input.MaxSpeed {
			hz = hz.Normalize().Mul(input.MaxSpeed)
			vel[0], vel[1] = hz.X(), hz.Y()
		}
	} else if state.mode == ModeWalking {
		keep := math32.Max(0, 1-s.Options.BrakingFriction*dt)
		vel[0] *= keep
		vel[1] *= keep
	}

	if input.Flags&FlagJump != 0 && state.onGround && state.mode == ModeWalking {
		vel[2] = s.Options.JumpVelocity
		state.mode = ModeFalling
		s.debugf("jump (vel=%v)", vel)
	}

	switch state.mode {
	case ModeFlying:
		vel[2] -= vel[2] * math32.Min(1, s.Options.FlyingDrag*dt)
	default:
		vel[2] -= s.Options.Gravity * dt
	}

	pos := state.pos.Add(vel.Mul(dt))
	state.onGround = pos.Z() <= s.Options.GroundHeight
	if state.onGround {
		pos[2] = s.Options.GroundHeight
		if vel[2] < 0 {
			vel[2] = 0
		}
		if state.mode == ModeFalling {
			state.mode = ModeWalking
		}
	} else if state.mode == ModeWalking {
		state.mode = ModeFalling
	}

	state.SetVelocity(vel)
	state.lastPos = state.pos
	state.pos = pos
	s.debugf("simulated %fs (pos=%v, vel=%v, mode=%v)", dt, pos, vel, state.mode)
}

func (s *Simulator) debugf(format string, args ...any) {
	if s.Options.Debugf != nil {
		s.Options.Debugf(format, args...)
	}
}
