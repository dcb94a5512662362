package channel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/message"
	"go.uber.org/atomic"
)

// Receiver holds the auxiliary values received from a predicting actor. The last value handled
// always wins, so callers that care about ordering relative to moves must handle values in the
// order they arrived with those moves.
type Receiver struct {
	frameTime atomic.Float32
	normal    atomic.Pointer[mgl32.Vec3]

	frameTimes atomic.Uint64
	normals    atomic.Uint64
}

// NewReceiver ...
func NewReceiver() *Receiver {
	return &Receiver{}
}

// Handle stores the value carried by the message given. It returns false if the message is not
// an auxiliary message.
func (r *Receiver) Handle(m message.Message) bool {
	switch m := m.(type) {
	case *message.SetFrameTime:
		r.SetFrameTime(m.FrameTime)
	case *message.SetWallNormal:
		r.SetWallNormal(m.Normal)
	default:
		return false
	}
	return true
}

// SetFrameTime ...
func (r *Receiver) SetFrameTime(frameTime float32) {
	r.frameTime.Store(frameTime)
	r.frameTimes.Inc()
}

// SetWallNormal ...
func (r *Receiver) SetWallNormal(normal mgl32.Vec3) {
	r.normal.Store(&normal)
	r.normals.Inc()
}

// FrameTime returns the last frame time received, or zero if none was received yet.
func (r *Receiver) FrameTime() float32 {
	return r.frameTime.Load()
}

// WallNormal returns the last wall normal received, or the zero vector if none was received yet.
func (r *Receiver) WallNormal() mgl32.Vec3 {
	if n := r.normal.Load(); n != nil {
		return *n
	}
	return mgl32.Vec3{}
}

// Received returns how many frame times and wall normals were received.
func (r *Receiver) Received() (frameTimes, normals uint64) {
	return r.frameTimes.Load(), r.normals.Load()
}

// ApplyTo writes the received values into the intent given. Values that were never received are
// left untouched.
func (r *Receiver) ApplyTo(i *intent.Intent) {
	if ft := r.FrameTime(); ft > 0 {
		i.FrameTime = ft
	}
	if n := r.normal.Load(); n != nil {
		i.WallNormal = *n
	}
}
