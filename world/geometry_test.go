package world

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func TestTraceReturnsClosestHit(t *testing.T) {
	g := NewGeometry(
		cube.Box(500, -50, -50, 520, 50, 50),
		cube.Box(300, -50, -50, 320, 50, 50),
	)

	hit, ok := g.Trace(mgl32.Vec3{}, mgl32.Vec3{1000, 0, 0}, ChannelCamera)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !hit.Point.ApproxEqualThreshold(mgl32.Vec3{300, 0, 0}, 1e-3) {
		t.Fatalf("expected hit at the closer wall, got %v", hit.Point)
	}
	if !mgl32.FloatEqualThreshold(hit.Distance, 300, 1e-3) {
		t.Fatalf("expected distance 300, got %f", hit.Distance)
	}
}

func TestTraceMisses(t *testing.T) {
	g := NewGeometry(cube.Box(300, 100, -50, 320, 200, 50))
	if _, ok := g.Trace(mgl32.Vec3{}, mgl32.Vec3{1000, 0, 0}, ChannelCamera); ok {
		t.Fatal("expected no hit")
	}
	if _, ok := g.Trace(mgl32.Vec3{}, mgl32.Vec3{200, 0, 0}, ChannelCamera); ok {
		t.Fatal("a segment ending before the solid should not hit it")
	}
}

func TestTraceRespectsChannels(t *testing.T) {
	g := &Geometry{}
	g.Add(cube.Box(300, -50, -50, 320, 50, 50), ChannelVisibility)

	if _, ok := g.Trace(mgl32.Vec3{}, mgl32.Vec3{1000, 0, 0}, ChannelCamera); ok {
		t.Fatal("solid blocking visibility only should not block the camera channel")
	}
	if _, ok := g.Trace(mgl32.Vec3{}, mgl32.Vec3{1000, 0, 0}, ChannelVisibility); !ok {
		t.Fatal("expected visibility trace to hit")
	}
}

func TestTraceStartingInsideSolid(t *testing.T) {
	g := NewGeometry(cube.Box(-10, -10, -10, 10, 10, 10))
	hit, ok := g.Trace(mgl32.Vec3{}, mgl32.Vec3{100, 0, 0}, ChannelCamera)
	if !ok || hit.Distance != 0 {
		t.Fatalf("expected an immediate hit, got %+v (ok=%v)", hit, ok)
	}
}
