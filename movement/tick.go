package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/ability"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/move"
)

// Input is the local input of a single predicted tick.
type Input struct {
	Delta float32
	Accel mgl32.Vec3
	Yaw   float32
	// EngineFlags holds the engine's own flags, such as engine.FlagJump.
	EngineFlags byte
}

// OnTeleportPressed requests a teleport on the next tick.
func (c *Component) OnTeleportPressed() {
	c.intent.WantsTeleport = true
}

// OnJetpackPressed starts thrusting the jetpack on the next tick.
func (c *Component) OnJetpackPressed() {
	c.intent.WantsJetpack = true
}

// OnJetpackReleased stops thrusting the jetpack on the next tick.
func (c *Component) OnJetpackReleased() {
	c.intent.WantsJetpack = false
}

// OnWallJumpPressed requests a wall jump off the wall with the normal given on the next tick.
// The normal is pushed over the auxiliary channel so that the authoritative side can replay it.
func (c *Component) OnWallJumpPressed(normal mgl32.Vec3) {
	c.intent.WantsWallJump = true
	if c.intent.WallNormal != normal {
		c.intent.WallNormal = normal
		if c.aux != nil {
			c.aux.PushWallNormal(normal)
		}
	}
}

// DecodeIncomingFlags sets the ability booleans of the intent from the compressed flags of a
// received move and returns the engine's own flags.
func (c *Component) DecodeIncomingFlags(compressed byte) byte {
	decoded := intent.Decompress(compressed)
	c.intent.WantsTeleport = decoded.WantsTeleport
	c.intent.WantsJetpack = decoded.WantsJetpack
	c.intent.WantsWallJump = decoded.WantsWallJump
	return intent.EngineFlags(compressed)
}

// OnTickAfterMovementApplied runs the abilities once the base movement of a tick was integrated.
// On the predicting side frameTime becomes the frame time of the intent. The authoritative side
// keeps the frame time received over the auxiliary channel and only falls back to frameTime
// until one arrived.
func (c *Component) OnTickAfterMovementApplied(frameTime float32, oldPos, oldVel mgl32.Vec3) {
	switch {
	case c.role == RolePredicting:
		c.setFrameTime(frameTime)
	case c.intent.FrameTime <= 0:
		c.intent.FrameTime = frameTime
	}

	n := c.abilities.Run(&ability.Context{
		Intent: &c.intent,
		Body:   c.state,
		World:  c.world,
		Debugf: c.debugf,
	})
	if n > 0 {
		c.logf("%d abilities applied, moved %v -> %v (velocity %v -> %v)", n, oldPos, c.state.Position(), oldVel, c.state.Velocity())
	}
}

// PerformMove runs a single predicted tick. The intent is captured into a saved move before
// anything is simulated, after which the move is buffered in the move history to be sent to the
// authoritative side.
func (c *Component) PerformMove(in Input) move.Snapshot {
	ctx := c.Prediction()
	c.meshOffset = ctx.DecayOffset(c.meshOffset, in.Delta)
	c.setFrameTime(in.Delta)

	m := c.AllocateMoveSnapshot()
	m.Capture(&c.intent, move.BaseMove{
		Sequence:    ctx.NextSequence(),
		Ticks:       1,
		Delta:       in.Delta,
		Accel:       in.Accel,
		Yaw:         in.Yaw,
		EngineFlags: in.EngineFlags,
		StartPos:    c.state.Position(),
		StartVel:    c.state.Velocity(),
	})
	c.step(in.Delta, in.Accel, in.Yaw, in.EngineFlags)
	m.Base().EndPos = c.state.Position()

	ctx.History().Add(m, ctx.MaxMoveDelta())
	return m
}

// ServerMove processes a move received from the predicting side. The move is split back into
// the ticks it was merged from, and the flags are decoded before every one of them so that
// abilities run exactly as often as they did on the predicting side.
func (c *Component) ServerMove(base move.BaseMove, compressed byte) {
	ticks := max(base.Ticks, 1)
	dt := base.Delta / float32(ticks)
	for range ticks {
		engineFlags := c.DecodeIncomingFlags(compressed)
		c.step(dt, base.Accel, base.Yaw, engineFlags)
	}
}

// Acknowledge marks every move up to and including seq as accepted by the authoritative side.
func (c *Component) Acknowledge(seq uint32) {
	c.Prediction().History().Acknowledge(seq)
}

// Reconcile rewinds the component to the authoritative state of move seq and replays every move
// the authoritative side did not process yet on top of it. The difference between the position
// before and after the correction is kept as a visual offset, which is dropped entirely if it is
// too large to be smoothed. Reconcile returns the amount of moves replayed.
func (c *Component) Reconcile(seq uint32, snap engine.Snapshot, state ability.RuntimeState) int {
	ctx := c.Prediction()
	before := c.state.Position()

	ctx.History().Acknowledge(seq)
	c.state.Restore(snap)
	c.abilities.Restore(state)

	live := c.intent
	n := 0
	for m := range ctx.History().Unacknowledged() {
		c.replay(m)
		m.Base().EndPos = c.state.Position()
		n++
	}
	c.intent.WantsTeleport = live.WantsTeleport
	c.intent.WantsJetpack = live.WantsJetpack
	c.intent.WantsWallJump = live.WantsWallJump
	c.intent.FrameTime = live.FrameTime
	c.intent.WallNormal = live.WallNormal

	c.meshOffset = ctx.SmoothOffset(c.meshOffset.Add(before.Sub(c.state.Position())))
	c.logf("reconciled to move %d, replayed %d moves (error %v)", seq, n, before.Sub(c.state.Position()).Len())
	return n
}

func (c *Component) replay(m move.Snapshot) {
	base := m.Base()
	ticks := max(base.Ticks, 1)
	dt := base.Delta / float32(ticks)
	for range ticks {
		m.ApplyTo(&c.intent)
		c.intent.FrameTime = dt
		c.step(dt, base.Accel, base.Yaw, base.EngineFlags)
	}
}

func (c *Component) step(dt float32, accel mgl32.Vec3, yaw float32, engineFlags byte) {
	oldPos, oldVel := c.state.Position(), c.state.Velocity()
	c.sim.Simulate(c.state, engine.Input{
		Delta:    dt,
		Accel:    accel,
		Yaw:      yaw,
		Flags:    engineFlags,
		MaxSpeed: c.MaxSpeed(),
	})
	c.OnTickAfterMovementApplied(dt, oldPos, oldVel)
}

func (c *Component) setFrameTime(frameTime float32) {
	if c.intent.FrameTime == frameTime {
		return
	}
	c.intent.FrameTime = frameTime
	if c.aux != nil {
		c.aux.PushFrameTime(frameTime)
	}
}

func (c *Component) logf(format string, args ...any) {
	if c.debugf != nil {
		c.debugf(format, args...)
	}
}
