package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/movement"
	"github.com/oomph-ac/movement/settings"
)

// stance is the owner state of the demo actor. It never changes while running, as the owner
// state is not replicated.
type stance struct {
	settings           settings.Settings
	targeting, running bool
}

func (s *stance) IsTargeting() bool { return s.targeting }
func (s *stance) TargetingSpeedModifier() float32 {
	return s.settings.Movement.TargetingSpeedModifier
}
func (s *stance) IsRunning() bool { return s.running }
func (s *stance) RunningSpeedModifier() float32 {
	return s.settings.Movement.RunningSpeedModifier
}

// script returns the scripted input of tick i, pressing abilities along the way. The script loops
// every ten seconds.
func script(c *movement.Component, i int) movement.Input {
	in := movement.Input{Delta: 1.0 / tickRate, Accel: mgl32.Vec3{2000, 0, 0}}
	switch i % (10 * tickRate) {
	case 2 * tickRate:
		c.OnJetpackPressed()
	case 3 * tickRate:
		c.OnJetpackReleased()
	case 4 * tickRate:
		c.OnWallJumpPressed(mgl32.Vec3{-1, 0, 0})
	case 6 * tickRate:
		c.OnTeleportPressed()
	case 7 * tickRate:
		in.EngineFlags = engine.FlagJump
	}
	if i%(10*tickRate) >= 9*tickRate {
		in.Accel = mgl32.Vec3{}
	}
	return in
}
