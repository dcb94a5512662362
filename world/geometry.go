package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// Channel is a trace channel. Solids may block some channels and let others through.
type Channel uint8

const (
	ChannelVisibility Channel = iota
	ChannelCamera

	channelCount
)

// AllChannels is the channel mask of a solid blocking every channel.
const AllChannels = 1<<channelCount - 1

// Hit is the result of a trace that was blocked by a solid.
type Hit struct {
	// Point is where the trace first touched the solid.
	Point mgl32.Vec3
	// Distance is the distance between the trace origin and Point.
	Distance float32
}

type solid struct {
	bb       cube.BBox
	channels uint8
}

// Geometry is a static set of solid boxes that can be traced against.
type Geometry struct {
	solids []solid
}

// NewGeometry returns geometry holding the boxes given, each blocking every channel.
func NewGeometry(boxes ...cube.BBox) *Geometry {
	g := &Geometry{}
	for _, bb := range boxes {
		g.Add(bb)
	}
	return g
}

// Add adds a solid box. If no channels are passed the box blocks every channel.
func (g *Geometry) Add(bb cube.BBox, blocks ...Channel) {
	mask := uint8(AllChannels)
	if len(blocks) > 0 {
		mask = 0
		for _, ch := range blocks {
			mask |= 1 << ch
		}
	}
	g.solids = append(g.solids, solid{bb: bb, channels: mask})
}

// Len returns the amount of solids in the geometry.
func (g *Geometry) Len() int {
	return len(g.solids)
}

// Trace casts a segment from origin to end and returns the closest solid blocking the channel
// given. A trace starting inside a solid hits it at the origin. A nil geometry is empty.
func (g *Geometry) Trace(origin, end mgl32.Vec3, ch Channel) (Hit, bool) {
	var (
		closest Hit
		found   bool
	)
	if g == nil {
		return closest, false
	}
	for _, s := range g.solids {
		if s.channels&(1<<ch) == 0 {
			continue
		}
		if s.bb.Vec3Within(origin) {
			return Hit{Point: origin}, true
		}

		res, ok := trace.BBoxIntercept(s.bb, origin, end)
		if !ok {
			continue
		}
		point := res.Position()
		if dist := point.Sub(origin).Len(); !found || dist < closest.Distance {
			closest, found = Hit{Point: point, Distance: dist}, true
		}
	}
	return closest, found
}
