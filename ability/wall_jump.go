package ability

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
)

// WallJump launches the body upwards and away from the wall it jumped off.
type WallJump struct {
	JumpVelocity float32
	LateralForce float32
}

// Flag ...
func (*WallJump) Flag() intent.Flag {
	return intent.FlagWallJump
}

// Execute overwrites the vertical velocity with JumpVelocity and adds LateralForce along the
// horizontal projection of the wall normal to the existing horizontal velocity. The flag is
// cleared afterwards.
func (w *WallJump) Execute(ctx *Context) bool {
	if !ctx.Intent.WantsWallJump {
		return false
	}
	ctx.Intent.WantsWallJump = false

	vel := ctx.Body.Velocity()
	vel[2] = w.JumpVelocity

	normal := ctx.Intent.WallNormal
	if hz := (mgl32.Vec2{normal.X(), normal.Y()}); hz.LenSqr() > 1e-12 {
		push := hz.Normalize().Mul(w.LateralForce)
		vel[0] += push.X()
		vel[1] += push.Y()
	}

	ctx.Body.SetVelocity(vel)
	ctx.Body.SetMode(engine.ModeFalling)
	ctx.debugf("wall jump (normal=%v, vel=%v)", normal, vel)
	return true
}
