package ability

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/world"
)

type mockBody struct {
	pos, forward, vel mgl32.Vec3
	mode              engine.Mode
	onGround          bool

	positionSets int
	lastKind     engine.TeleportKind
}

func (b *mockBody) Position() mgl32.Vec3 { return b.pos }
func (b *mockBody) Forward() mgl32.Vec3  { return b.forward }
func (b *mockBody) SetPosition(pos mgl32.Vec3, _ bool, kind engine.TeleportKind) {
	b.pos = pos
	b.positionSets++
	b.lastKind = kind
}
func (b *mockBody) Velocity() mgl32.Vec3       { return b.vel }
func (b *mockBody) SetVelocity(vel mgl32.Vec3) { b.vel = vel }
func (b *mockBody) Mode() engine.Mode          { return b.mode }
func (b *mockBody) SetMode(mode engine.Mode)   { b.mode = mode }
func (b *mockBody) OnGround() bool             { return b.onGround }

type mockTrace struct {
	hit world.Hit
	ok  bool

	origin, end mgl32.Vec3
	ch          world.Channel
}

func (m *mockTrace) Trace(origin, end mgl32.Vec3, ch world.Channel) (world.Hit, bool) {
	m.origin, m.end, m.ch = origin, end, ch
	return m.hit, m.ok
}

func newTeleportContext(tr TraceQuery) (*Context, *mockBody) {
	body := &mockBody{forward: mgl32.Vec3{1, 0, 0}}
	return &Context{Intent: &intent.Intent{WantsTeleport: true}, Body: body, World: tr}, body
}

func TestTeleportUnobstructed(t *testing.T) {
	tr := &mockTrace{}
	ctx, body := newTeleportContext(tr)
	tp := &Teleport{Distance: 500, ClipSafetyDistance: 70}

	if !tp.Execute(ctx) {
		t.Fatal("expected teleport to execute")
	}
	if body.pos != (mgl32.Vec3{500, 0, 0}) {
		t.Fatalf("expected (500,0,0), got %v", body.pos)
	}
	if body.lastKind != engine.TeleportPhysics {
		t.Fatal("teleport should bypass physics")
	}
	if tr.end != (mgl32.Vec3{570, 0, 0}) || tr.ch != world.ChannelCamera {
		t.Fatalf("expected trace to (570,0,0) on the camera channel, got %v on %v", tr.end, tr.ch)
	}
}

func TestTeleportDistantObstruction(t *testing.T) {
	ctx, body := newTeleportContext(&mockTrace{ok: true, hit: world.Hit{Point: mgl32.Vec3{300, 0, 0}, Distance: 300}})
	(&Teleport{Distance: 500, ClipSafetyDistance: 70}).Execute(ctx)

	if body.pos != (mgl32.Vec3{230, 0, 0}) {
		t.Fatalf("expected (230,0,0), got %v", body.pos)
	}
}

func TestTeleportNearObstructionCancels(t *testing.T) {
	ctx, body := newTeleportContext(&mockTrace{ok: true, hit: world.Hit{Point: mgl32.Vec3{50, 0, 0}, Distance: 50}})
	(&Teleport{Distance: 500, ClipSafetyDistance: 70}).Execute(ctx)

	if body.pos != (mgl32.Vec3{}) {
		t.Fatalf("expected teleport to be cancelled, got %v", body.pos)
	}
	if body.positionSets != 1 {
		t.Fatal("a cancelled teleport still sets the current position")
	}
}

func TestTeleportAgainstGeometry(t *testing.T) {
	g := world.NewGeometry(cube.Box(300, -50, -50, 320, 50, 50))
	ctx, body := newTeleportContext(g)
	(&Teleport{Distance: 500, ClipSafetyDistance: 70}).Execute(ctx)

	if !body.pos.ApproxEqualThreshold(mgl32.Vec3{230, 0, 0}, 1e-3) {
		t.Fatalf("expected (230,0,0), got %v", body.pos)
	}
}

func TestTeleportWithoutWorld(t *testing.T) {
	ctx, body := newTeleportContext(nil)
	(&Teleport{Distance: 500, ClipSafetyDistance: 70}).Execute(ctx)
	if body.pos != (mgl32.Vec3{500, 0, 0}) {
		t.Fatalf("expected (500,0,0), got %v", body.pos)
	}
}

func TestTeleportIsOneShot(t *testing.T) {
	ctx, body := newTeleportContext(&mockTrace{})
	tp := &Teleport{Distance: 500, ClipSafetyDistance: 70}

	if !tp.Execute(ctx) || ctx.Intent.WantsTeleport {
		t.Fatal("expected first execution to teleport and clear the flag")
	}
	if tp.Execute(ctx) {
		t.Fatal("second execution without a new press should do nothing")
	}
	if body.pos != (mgl32.Vec3{500, 0, 0}) || body.positionSets != 1 {
		t.Fatalf("expected a single teleport, got pos=%v sets=%d", body.pos, body.positionSets)
	}
}

func TestJetpackRampAndReset(t *testing.T) {
	j := NewJetpack(0, 10, 5)
	body := &mockBody{}
	in := &intent.Intent{WantsJetpack: true, FrameTime: 1}
	ctx := &Context{Intent: in, Body: body}

	j.Execute(ctx)
	if j.Force() != 5 {
		t.Fatalf("expected force 5 after one unit of time, got %f", j.Force())
	}
	if body.vel.Z() != 5 || body.mode != engine.ModeFlying {
		t.Fatalf("expected upward velocity 5 while flying, got vel=%v mode=%v", body.vel, body.mode)
	}

	in.WantsJetpack = false
	j.Execute(ctx)
	if j.Force() != 0 {
		t.Fatalf("expected force to reset to the initial force, got %f", j.Force())
	}
	if body.mode != engine.ModeFalling {
		t.Fatalf("expected falling after release in the air, got %v", body.mode)
	}

	in.WantsJetpack = true
	j.Execute(ctx)
	if j.Force() != 5 {
		t.Fatalf("expected ramp to restart from 0, got %f", j.Force())
	}
}

func TestJetpackClampsAtMaxForce(t *testing.T) {
	j := NewJetpack(0, 10, 5)
	ctx := &Context{Intent: &intent.Intent{WantsJetpack: true, FrameTime: 1}, Body: &mockBody{}}

	last := j.Force()
	for range 10 {
		j.Execute(ctx)
		if j.Force() < last {
			t.Fatalf("force decreased while held: %f < %f", j.Force(), last)
		}
		if j.Force() > 10 {
			t.Fatalf("force exceeded max: %f", j.Force())
		}
		last = j.Force()
	}
	if last != 10 {
		t.Fatalf("expected force to settle at 10, got %f", last)
	}
}

func TestJetpackReleaseOnGround(t *testing.T) {
	j := NewJetpack(2, 10, 5)
	body := &mockBody{onGround: true}
	in := &intent.Intent{WantsJetpack: true, FrameTime: 0.5}
	ctx := &Context{Intent: in, Body: body}

	j.Execute(ctx)
	in.WantsJetpack = false
	j.Execute(ctx)
	if body.mode != engine.ModeWalking || j.Force() != 2 {
		t.Fatalf("expected walking with force reset to 2, got mode=%v force=%f", body.mode, j.Force())
	}
	if j.Execute(ctx) {
		t.Fatal("idle jetpack should have no effect")
	}
}

func TestWallJumpComposition(t *testing.T) {
	body := &mockBody{vel: mgl32.Vec3{50, 0, -30}}
	in := &intent.Intent{WantsWallJump: true, WallNormal: mgl32.Vec3{1, 0, 0}}
	wj := &WallJump{JumpVelocity: 600, LateralForce: 400}

	wj.Execute(&Context{Intent: in, Body: body})
	if body.vel != (mgl32.Vec3{450, 0, 600}) {
		t.Fatalf("expected (450,0,600), got %v", body.vel)
	}
	if body.mode != engine.ModeFalling {
		t.Fatalf("expected falling after wall jump, got %v", body.mode)
	}
}

func TestWallJumpUsesHorizontalProjection(t *testing.T) {
	body := &mockBody{}
	in := &intent.Intent{WantsWallJump: true, WallNormal: mgl32.Vec3{0, 3, 4}}
	(&WallJump{JumpVelocity: 600, LateralForce: 400}).Execute(&Context{Intent: in, Body: body})

	if !body.vel.ApproxEqualThreshold(mgl32.Vec3{0, 400, 600}, 1e-3) {
		t.Fatalf("expected (0,400,600), got %v", body.vel)
	}
}

func TestWallJumpIsOneShot(t *testing.T) {
	body := &mockBody{}
	in := &intent.Intent{WantsWallJump: true, WallNormal: mgl32.Vec3{1, 0, 0}}
	wj := &WallJump{JumpVelocity: 600, LateralForce: 400}
	ctx := &Context{Intent: in, Body: body}

	if !wj.Execute(ctx) || wj.Execute(ctx) {
		t.Fatal("expected exactly one wall jump")
	}
	if body.vel != (mgl32.Vec3{400, 0, 600}) {
		t.Fatalf("lateral force should be applied once, got %v", body.vel)
	}
}

func TestSetRunsInFlagOrderAndRestores(t *testing.T) {
	s := NewSet(Config{
		TeleportDistance: 100, ClipSafetyDistance: 70,
		JetpackInitialForce: 0, JetpackMaxForce: 10, JetpackIncreaseRate: 5,
		WallJumpVelocity: 600, WallJumpLateralForce: 400,
	})
	body := &mockBody{forward: mgl32.Vec3{1, 0, 0}}
	in := &intent.Intent{WantsTeleport: true, WantsJetpack: true, FrameTime: 1}

	if n := s.Run(&Context{Intent: in, Body: body}); n != 2 {
		t.Fatalf("expected teleport and jetpack to run, got %d", n)
	}
	state := s.State()
	if state.JetpackForce != 5 || !state.JetpackActive {
		t.Fatalf("unexpected runtime state %+v", state)
	}

	s.Restore(RuntimeState{})
	if s.Jetpack().Force() != 0 || s.Jetpack().Active() {
		t.Fatal("restore did not overwrite the runtime state")
	}
}
