package prediction

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/assert"
	"github.com/oomph-ac/movement/move"
)

const (
	// DefaultMaxSmoothNetUpdateDist is the largest correction that is fully smoothed out.
	DefaultMaxSmoothNetUpdateDist = 92
	// DefaultNoSmoothNetUpdateDist is the correction distance past which the client snaps.
	DefaultNoSmoothNetUpdateDist = 140
	// DefaultMaxMoveDeltaTime is the longest time span a single (merged) move may cover.
	DefaultMaxMoveDeltaTime = 0.125
)

// Config configures client prediction data.
type Config struct {
	MaxSmoothNetUpdateDist float32
	NoSmoothNetUpdateDist  float32
	MaxMoveDeltaTime       float32
	MaxHistory             int
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		MaxSmoothNetUpdateDist: DefaultMaxSmoothNetUpdateDist,
		NoSmoothNetUpdateDist:  DefaultNoSmoothNetUpdateDist,
		MaxMoveDeltaTime:       DefaultMaxMoveDeltaTime,
		MaxHistory:             move.DefaultMaxHistory,
	}
}

// Context is the client prediction data of a single movement component. It is created once, on
// first access, and owned by that component for its whole lifetime.
type Context struct {
	maxSmoothNetUpdateDist float32
	noSmoothNetUpdateDist  float32
	maxMoveDelta           float32

	allocate move.Allocator
	history  *move.History
	sequence uint32
}

// New returns prediction data using the allocator given for every captured move.
func New(conf Config, allocate move.Allocator) *Context {
	assert.IsTrue(allocate != nil, "prediction context requires a move allocator")
	if conf.MaxMoveDeltaTime <= 0 {
		conf.MaxMoveDeltaTime = DefaultMaxMoveDeltaTime
	}
	return &Context{
		maxSmoothNetUpdateDist: conf.MaxSmoothNetUpdateDist,
		noSmoothNetUpdateDist:  conf.NoSmoothNetUpdateDist,
		maxMoveDelta:           conf.MaxMoveDeltaTime,
		allocate:               allocate,
		history:                move.NewHistory(conf.MaxHistory),
	}
}

// AllocateMove returns a new, empty move from the installed allocator.
func (c *Context) AllocateMove() move.Snapshot {
	return c.allocate()
}

// NextSequence returns the sequence number for the next captured move.
func (c *Context) NextSequence() uint32 {
	c.sequence++
	return c.sequence
}

// History returns the saved moves of the component.
func (c *Context) History() *move.History {
	return c.history
}

// MaxMoveDelta returns the longest time a merged move may cover.
func (c *Context) MaxMoveDelta() float32 {
	return c.maxMoveDelta
}

// MaxSmoothNetUpdateDist ...
func (c *Context) MaxSmoothNetUpdateDist() float32 {
	return c.maxSmoothNetUpdateDist
}

// NoSmoothNetUpdateDist ...
func (c *Context) NoSmoothNetUpdateDist() float32 {
	return c.noSmoothNetUpdateDist
}

// SmoothOffset returns the visual offset to keep after a correction moved the body by -offset.
// Small corrections are smoothed out entirely, medium ones are clamped to the smoothing distance
// and large ones snap.
func (c *Context) SmoothOffset(offset mgl32.Vec3) mgl32.Vec3 {
	dist := offset.Len()
	switch {
	case dist > c.noSmoothNetUpdateDist:
		return mgl32.Vec3{}
	case dist > c.maxSmoothNetUpdateDist:
		return offset.Normalize().Mul(c.maxSmoothNetUpdateDist)
	}
	return offset
}

// SmoothLocationTime is the time it takes for a smoothed correction offset to fully decay.
const SmoothLocationTime = 0.1

// DecayOffset returns the visual offset left after dt seconds of smoothing.
func (c *Context) DecayOffset(offset mgl32.Vec3, dt float32) mgl32.Vec3 {
	if dt >= SmoothLocationTime {
		return mgl32.Vec3{}
	}
	return offset.Mul(1 - dt/SmoothLocationTime)
}
