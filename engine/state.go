package engine

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// State is the movement state of a single body. It is mutated by the simulator and by ability
// executors during the owner's tick only.
type State struct {
	pos, lastPos mgl32.Vec3
	vel, lastVel mgl32.Vec3
	yaw          float32

	mode     Mode
	onGround bool

	teleported   bool
	teleportKind TeleportKind
}

// NewState returns a grounded state at the position given.
func NewState(pos mgl32.Vec3) *State {
	return &State{pos: pos, lastPos: pos, mode: ModeWalking, onGround: true}
}

// Position returns the position of the body.
func (s *State) Position() mgl32.Vec3 {
	return s.pos
}

// LastPosition returns the position of the body before the last update.
func (s *State) LastPosition() mgl32.Vec3 {
	return s.lastPos
}

// SetPosition moves the body to the position given. Sweeping is not supported by this engine
// as it has no collision resolution, so the move is always instant.
func (s *State) SetPosition(pos mgl32.Vec3, _ bool, kind TeleportKind) {
	s.lastPos = s.pos
	s.pos = pos
	s.teleported = kind == TeleportPhysics
	s.teleportKind = kind
}

// Velocity returns the velocity of the body.
func (s *State) Velocity() mgl32.Vec3 {
	return s.vel
}

// LastVelocity returns the velocity of the body before the last update.
func (s *State) LastVelocity() mgl32.Vec3 {
	return s.lastVel
}

// SetVelocity sets the velocity of the body.
func (s *State) SetVelocity(vel mgl32.Vec3) {
	s.lastVel = s.vel
	s.vel = vel
}

// Yaw returns the yaw of the body in radians.
func (s *State) Yaw() float32 {
	return s.yaw
}

// SetYaw sets the yaw of the body in radians.
func (s *State) SetYaw(yaw float32) {
	s.yaw = yaw
}

// Forward returns the horizontal unit vector the body is facing.
func (s *State) Forward() mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(s.yaw), math32.Sin(s.yaw), 0}
}

// Mode returns the movement mode of the body.
func (s *State) Mode() Mode {
	return s.mode
}

// SetMode sets the movement mode of the body.
func (s *State) SetMode(mode Mode) {
	s.mode = mode
}

// OnGround returns true if the body was supported by the ground after the last update.
func (s *State) OnGround() bool {
	return s.onGround
}

// Teleported returns true if the body was teleported since the last simulation.
func (s *State) Teleported() bool {
	return s.teleported
}

// Snapshot returns a copy of the authoritative part of the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{Pos: s.pos, Vel: s.vel, Yaw: s.yaw, Mode: s.mode, OnGround: s.onGround}
}

// Restore overwrites the state with a snapshot, usually one received from the authoritative side.
func (s *State) Restore(snap Snapshot) {
	s.lastPos, s.pos = snap.Pos, snap.Pos
	s.lastVel, s.vel = snap.Vel, snap.Vel
	s.yaw = snap.Yaw
	s.mode = snap.Mode
	s.onGround = snap.OnGround
	s.teleported = false
}

// Snapshot is the copyable movement state sent in corrections.
type Snapshot struct {
	Pos, Vel mgl32.Vec3
	Yaw      float32
	Mode     Mode
	OnGround bool
}
