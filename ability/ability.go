package ability

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/world"
)

// Body is the transform and movement state an executor acts on.
type Body interface {
	Position() mgl32.Vec3
	Forward() mgl32.Vec3
	SetPosition(pos mgl32.Vec3, sweep bool, kind engine.TeleportKind)

	Velocity() mgl32.Vec3
	SetVelocity(vel mgl32.Vec3)

	Mode() engine.Mode
	SetMode(mode engine.Mode)
	OnGround() bool
}

// TraceQuery casts segments against solid geometry.
type TraceQuery interface {
	Trace(origin, end mgl32.Vec3, ch world.Channel) (world.Hit, bool)
}

// Context holds everything an executor may read or mutate during a tick.
type Context struct {
	Intent *intent.Intent
	Body   Body
	// World may be nil, in which case traces never hit anything.
	World TraceQuery

	Debugf func(format string, args ...any)
}

func (ctx *Context) trace(origin, end mgl32.Vec3, ch world.Channel) (world.Hit, bool) {
	if ctx.World == nil {
		return world.Hit{}, false
	}
	return ctx.World.Trace(origin, end, ch)
}

func (ctx *Context) debugf(format string, args ...any) {
	if ctx.Debugf != nil {
		ctx.Debugf(format, args...)
	}
}

// Executor runs a single ability. Executors are deterministic: the same intent, body state and
// runtime state always produce the same result on both the predicting and authoritative side.
type Executor interface {
	// Flag returns the intent flag that activates the executor.
	Flag() intent.Flag
	// Execute runs the executor for the current tick and returns true if it had an effect.
	Execute(ctx *Context) bool
}
