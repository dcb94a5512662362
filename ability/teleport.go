package ability

import (
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/world"
)

// DefaultClipSafetyDistance is a bit larger than the radius of the player capsule.
const DefaultClipSafetyDistance = 70

// Teleport instantly moves the body forward by Distance, stopping ClipSafetyDistance short of
// any solid in the way.
type Teleport struct {
	Distance           float32
	ClipSafetyDistance float32
}

// Flag ...
func (*Teleport) Flag() intent.Flag {
	return intent.FlagTeleport
}

// Execute teleports the body if the intent asks for it. The flag is cleared afterwards, so a new
// press is needed to teleport again.
func (t *Teleport) Execute(ctx *Context) bool {
	if !ctx.Intent.WantsTeleport {
		return false
	}
	defer func() {
		ctx.Intent.WantsTeleport = false
	}()

	pos, forward := ctx.Body.Position(), ctx.Body.Forward()
	target := pos.Add(forward.Mul(t.Distance))
	// Trace a little past the target so we never end up right in front of a wall we did not see.
	traceEnd := target.Add(forward.Mul(t.ClipSafetyDistance))

	if hit, ok := ctx.trace(pos, traceEnd, world.ChannelCamera); ok {
		if hit.Distance > t.ClipSafetyDistance {
			target = hit.Point.Sub(forward.Mul(t.ClipSafetyDistance))
		} else {
			// Too close to the obstruction to move safely.
			target = pos
		}
		ctx.debugf("teleport obstructed at distance %f (target=%v)", hit.Distance, target)
	}

	ctx.Body.SetPosition(target, false, engine.TeleportPhysics)
	ctx.debugf("teleported from %v to %v", pos, target)
	return true
}
