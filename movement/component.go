package movement

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/ability"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/move"
	"github.com/oomph-ac/movement/prediction"
	"go.uber.org/atomic"
)

// Role is the network role of a movement component.
type Role uint8

const (
	// RolePredicting components apply input immediately and buffer moves for the server.
	RolePredicting Role = iota
	// RoleAuthoritative components process moves received from a predicting peer.
	RoleAuthoritative
)

// Stance exposes the owner state that scales the maximum speed.
type Stance interface {
	IsTargeting() bool
	TargetingSpeedModifier() float32
	IsRunning() bool
	RunningSpeedModifier() float32
}

// AuxiliarySink receives the values that are not part of the compressed flags whenever they
// change on the predicting side.
type AuxiliarySink interface {
	PushFrameTime(frameTime float32)
	PushWallNormal(normal mgl32.Vec3)
}

// Config configures a movement component.
type Config struct {
	Abilities  ability.Config
	Prediction prediction.Config
	Engine     engine.Options
	// MaxSpeed is the base horizontal speed limit before stance modifiers.
	MaxSpeed float32
}

// DefaultConfig returns the configuration used when no settings are loaded.
func DefaultConfig() Config {
	return Config{
		Abilities: ability.Config{
			TeleportDistance:     1000,
			ClipSafetyDistance:   ability.DefaultClipSafetyDistance,
			JetpackInitialForce:  10,
			JetpackMaxForce:      60,
			JetpackIncreaseRate:  80,
			WallJumpVelocity:     600,
			WallJumpLateralForce: 400,
		},
		Prediction: prediction.DefaultConfig(),
		Engine:     engine.DefaultOptions(),
		MaxSpeed:   600,
	}
}

// Component is the ability-aware movement component of a single actor. It is not safe for
// concurrent use: every method other than Prediction and HasPrediction must be called from the
// actor's tick.
type Component struct {
	role Role
	conf Config

	intent    intent.Intent
	state     *engine.State
	sim       *engine.Simulator
	abilities *ability.Set

	world  ability.TraceQuery
	stance Stance
	aux    AuxiliarySink

	predictionOnce sync.Once
	prediction     atomic.Pointer[prediction.Context]

	meshOffset mgl32.Vec3

	debugf func(format string, args ...any)
}

// New returns a component at the spawn position given.
func New(role Role, conf Config, spawn mgl32.Vec3) *Component {
	return &Component{
		role:      role,
		conf:      conf,
		state:     engine.NewState(spawn),
		sim:       &engine.Simulator{Options: conf.Engine},
		abilities: ability.NewSet(conf.Abilities),
	}
}

// Role ...
func (c *Component) Role() Role {
	return c.role
}

// SetWorld sets the geometry abilities trace against.
func (c *Component) SetWorld(w ability.TraceQuery) {
	c.world = w
}

// SetStance sets the owner queried for speed modifiers.
func (c *Component) SetStance(s Stance) {
	c.stance = s
}

// SetAuxiliary sets the sink notified of frame time and wall normal changes.
func (c *Component) SetAuxiliary(aux AuxiliarySink) {
	c.aux = aux
}

// SetDebugf sets a function receiving traces of ability execution and simulation.
func (c *Component) SetDebugf(f func(format string, args ...any)) {
	c.debugf = f
	c.sim.Options.Debugf = f
}

// State returns the movement state of the component.
func (c *Component) State() *engine.State {
	return c.state
}

// Intent returns the intent of the component.
func (c *Component) Intent() *intent.Intent {
	return &c.intent
}

// Abilities returns the ability executors of the component.
func (c *Component) Abilities() *ability.Set {
	return c.abilities
}

// MeshOffset returns the visual offset left over from smoothed corrections.
func (c *Component) MeshOffset() mgl32.Vec3 {
	return c.meshOffset
}

// Prediction returns the client prediction data of the component, creating it on first use. It
// is created at most once per component, even if first accessed from several places at once.
func (c *Component) Prediction() *prediction.Context {
	c.predictionOnce.Do(func() {
		c.prediction.Store(prediction.New(c.conf.Prediction, move.SavedMoveAllocator))
	})
	return c.prediction.Load()
}

// HasPrediction returns true if the prediction data was created already. It never creates it.
func (c *Component) HasPrediction() bool {
	return c.prediction.Load() != nil
}

// AllocateMoveSnapshot returns an empty ability-aware saved move.
func (c *Component) AllocateMoveSnapshot() move.Snapshot {
	return c.Prediction().AllocateMove()
}

// MaxSpeedModifier returns the factor the base max speed is multiplied with for the owner's
// current stance.
func (c *Component) MaxSpeedModifier() float32 {
	mod := float32(1)
	if c.stance == nil {
		return mod
	}
	if c.stance.IsTargeting() {
		mod *= c.stance.TargetingSpeedModifier()
	}
	if c.stance.IsRunning() {
		mod *= c.stance.RunningSpeedModifier()
	}
	return mod
}

// MaxSpeed returns the base max speed scaled by MaxSpeedModifier.
func (c *Component) MaxSpeed() float32 {
	return c.conf.MaxSpeed * c.MaxSpeedModifier()
}
