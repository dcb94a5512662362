package ability

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
)

// Jetpack pushes the body upwards with a force that ramps up from InitialForce to MaxForce for
// as long as the ability is held.
type Jetpack struct {
	InitialForce      float32
	MaxForce          float32
	ForceIncreaseRate float32

	force  float32
	active bool
}

// NewJetpack returns a jetpack with its force accumulator at the initial force.
func NewJetpack(initialForce, maxForce, increaseRate float32) *Jetpack {
	j := &Jetpack{InitialForce: initialForce, MaxForce: maxForce, ForceIncreaseRate: increaseRate}
	j.Reset()
	return j
}

// Flag ...
func (*Jetpack) Flag() intent.Flag {
	return intent.FlagJetpack
}

// Force returns the current value of the force accumulator.
func (j *Jetpack) Force() float32 {
	return j.force
}

// Active returns true if the jetpack was held during the last executed tick.
func (j *Jetpack) Active() bool {
	return j.active
}

// Reset puts the accumulator back at the initial force.
func (j *Jetpack) Reset() {
	j.force = math32.Min(j.InitialForce, j.MaxForce)
}

// Execute must run every tick: while held it ramps the force and applies it to the vertical
// velocity, and on release it resets the accumulator and hands the body back to gravity.
func (j *Jetpack) Execute(ctx *Context) bool {
	if ctx.Intent.WantsJetpack {
		j.active = true
		j.force = math32.Min(j.force+j.ForceIncreaseRate*ctx.Intent.FrameTime, j.MaxForce)

		vel := ctx.Body.Velocity()
		vel[2] += j.force
		ctx.Body.SetVelocity(vel)
		ctx.Body.SetMode(engine.ModeFlying)
		return true
	}
	if !j.active {
		return false
	}

	j.active = false
	j.Reset()
	if ctx.Body.OnGround() {
		ctx.Body.SetMode(engine.ModeWalking)
	} else {
		ctx.Body.SetMode(engine.ModeFalling)
	}
	ctx.debugf("jetpack released (mode=%v)", ctx.Body.Mode())
	return true
}
