package movement

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/ability"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/intent"
	"github.com/oomph-ac/movement/move"
	"github.com/oomph-ac/movement/prediction"
)

type mockStance struct {
	targeting, running bool
}

func (s mockStance) IsTargeting() bool               { return s.targeting }
func (s mockStance) TargetingSpeedModifier() float32 { return 0.5 }
func (s mockStance) IsRunning() bool                 { return s.running }
func (s mockStance) RunningSpeedModifier() float32   { return 1.5 }

type mockAux struct {
	frameTimes []float32
	normals    []mgl32.Vec3
}

func (a *mockAux) PushFrameTime(frameTime float32)  { a.frameTimes = append(a.frameTimes, frameTime) }
func (a *mockAux) PushWallNormal(normal mgl32.Vec3) { a.normals = append(a.normals, normal) }

func TestPredictionIsCreatedOnce(t *testing.T) {
	c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	if c.HasPrediction() {
		t.Fatal("prediction data should not exist before first access")
	}

	const workers = 16
	var (
		wg      sync.WaitGroup
		results [workers]*prediction.Context
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Prediction()
		}()
	}
	wg.Wait()

	for i, r := range results {
		if r == nil || r != results[0] {
			t.Fatalf("worker %d observed a different prediction context", i)
		}
	}
	if !c.HasPrediction() {
		t.Fatal("prediction data should exist after first access")
	}
}

func TestAuthoritativeSideNeverCreatesPrediction(t *testing.T) {
	c := New(RoleAuthoritative, DefaultConfig(), mgl32.Vec3{})
	c.ServerMove(move.BaseMove{Ticks: 1, Delta: 1.0 / 64, Accel: mgl32.Vec3{100, 0, 0}}, 0)
	if c.HasPrediction() {
		t.Fatal("processing a move on the authoritative side should not create prediction data")
	}
}

func TestAllocateMoveSnapshot(t *testing.T) {
	c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	if _, ok := c.AllocateMoveSnapshot().(*move.SavedMove); !ok {
		t.Fatalf("expected *move.SavedMove, got %T", c.AllocateMoveSnapshot())
	}
}

func TestMaxSpeedModifier(t *testing.T) {
	tests := map[string]struct {
		stance Stance
		want   float32
	}{
		"no owner":  {nil, 1},
		"idle":      {mockStance{}, 1},
		"targeting": {mockStance{targeting: true}, 0.5},
		"running":   {mockStance{running: true}, 1.5},
		"both":      {mockStance{targeting: true, running: true}, 0.75},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
			c.SetStance(tt.stance)
			if got := c.MaxSpeedModifier(); got != tt.want {
				t.Fatalf("MaxSpeedModifier() = %v, want %v", got, tt.want)
			}
			if got := c.MaxSpeed(); got != 600*tt.want {
				t.Fatalf("MaxSpeed() = %v, want %v", got, 600*tt.want)
			}
		})
	}
}

func TestDecodeIncomingFlags(t *testing.T) {
	c := New(RoleAuthoritative, DefaultConfig(), mgl32.Vec3{})
	c.Intent().WantsTeleport = true

	in := intent.Intent{WantsJetpack: true, WantsWallJump: true}
	engineFlags := c.DecodeIncomingFlags(intent.Compress(engine.FlagJump, in))
	if engineFlags != engine.FlagJump {
		t.Fatalf("expected engine flags %b, got %b", engine.FlagJump, engineFlags)
	}
	if !c.Intent().EqualFlags(&in) {
		t.Fatalf("expected intent %+v, got %+v", in, *c.Intent())
	}
}

func TestPerformMoveCapturesIntentBeforeAbilities(t *testing.T) {
	c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	c.OnTeleportPressed()

	m := c.PerformMove(Input{Delta: 1.0 / 64})
	if m.CompressedFlags() != intent.FlagTeleport.Bit()<<intent.CustomFlagOffset {
		t.Fatalf("expected teleport to be captured, got %08b", m.CompressedFlags())
	}
	if c.Intent().WantsTeleport {
		t.Fatal("teleport should be cleared once executed")
	}
	if got := c.State().Position(); !got.ApproxEqual(mgl32.Vec3{1000, 0, 0}) {
		t.Fatalf("expected to teleport forward, got %v", got)
	}
	if m.Base().EndPos != c.State().Position() {
		t.Fatalf("expected end position %v, got %v", c.State().Position(), m.Base().EndPos)
	}

	next := c.PerformMove(Input{Delta: 1.0 / 64})
	if next.CompressedFlags() != 0 {
		t.Fatalf("expected no flags on the following move, got %08b", next.CompressedFlags())
	}
	if c.Prediction().History().Len() != 2 {
		t.Fatalf("expected 2 moves in history, got %d", c.Prediction().History().Len())
	}
}

func TestAuxiliaryPushedOnChange(t *testing.T) {
	aux := &mockAux{}
	c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	c.SetAuxiliary(aux)

	for range 3 {
		c.PerformMove(Input{Delta: 1.0 / 64})
	}
	c.PerformMove(Input{Delta: 1.0 / 32})
	if len(aux.frameTimes) != 2 {
		t.Fatalf("expected 2 frame time pushes, got %v", aux.frameTimes)
	}

	c.OnWallJumpPressed(mgl32.Vec3{1, 0, 0})
	c.OnWallJumpPressed(mgl32.Vec3{1, 0, 0})
	if len(aux.normals) != 1 {
		t.Fatalf("expected 1 wall normal push, got %v", aux.normals)
	}
}

// link forwards the values pushed by a predicting component straight into an authoritative one.
type link struct {
	server *Component
}

func (l link) PushFrameTime(frameTime float32)  { l.server.Intent().FrameTime = frameTime }
func (l link) PushWallNormal(normal mgl32.Vec3) { l.server.Intent().WallNormal = normal }

type scriptedTick struct {
	in      Input
	trigger func(c *Component)
}

func script() []scriptedTick {
	var ticks []scriptedTick
	forward := Input{Delta: 1.0 / 64, Accel: mgl32.Vec3{2000, 0, 0}}
	for i := range 120 {
		tick := scriptedTick{in: forward}
		switch i {
		case 10:
			tick.trigger = (*Component).OnJetpackPressed
		case 40:
			tick.trigger = (*Component).OnJetpackReleased
		case 50:
			tick.trigger = func(c *Component) { c.OnWallJumpPressed(mgl32.Vec3{-1, 0, 0}) }
		case 70:
			tick.trigger = (*Component).OnTeleportPressed
		case 90:
			tick.in.EngineFlags = engine.FlagJump
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func TestAuthoritativeSideMatchesPrediction(t *testing.T) {
	client := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	server := New(RoleAuthoritative, DefaultConfig(), mgl32.Vec3{})
	client.SetAuxiliary(link{server: server})

	sent := 0
	for i, tick := range script() {
		if tick.trigger != nil {
			tick.trigger(client)
		}
		client.PerformMove(tick.in)
		if i%4 != 3 {
			continue
		}
		h := client.Prediction().History()
		for _, m := range h.Unsent() {
			h.MarkSent(m.Base().Sequence)
			server.ServerMove(*m.Base(), m.CompressedFlags())
			if got, want := server.State().Position(), m.Base().EndPos; !got.ApproxEqualThreshold(want, 1e-2) {
				t.Fatalf("move %d: authoritative position %v differs from predicted %v", m.Base().Sequence, got, want)
			}
			client.Acknowledge(m.Base().Sequence)
			sent++
		}
	}
	if sent == 0 || sent >= len(script()) {
		t.Fatalf("expected moves to be merged before sending, sent %d", sent)
	}
}

func TestReconcileReplaysUnacknowledgedMoves(t *testing.T) {
	client := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	for _, tick := range script()[:30] {
		if tick.trigger != nil {
			tick.trigger(client)
		}
		client.PerformMove(tick.in)
	}

	var first move.Snapshot
	for m := range client.Prediction().History().Unacknowledged() {
		first = m
		break
	}
	if first == nil {
		t.Fatal("expected moves in history")
	}
	seq := first.Base().Sequence
	// The authoritative side agreed with the first move but nudged the actor sideways.
	snap := engine.Snapshot{Pos: first.Base().EndPos.Add(mgl32.Vec3{0, 5, 0}), Mode: engine.ModeWalking, OnGround: true}

	before := client.State().Position()
	n := client.Reconcile(seq, snap, ability.RuntimeState{JetpackForce: 10})
	if n == 0 {
		t.Fatal("expected moves to be replayed")
	}
	if client.Prediction().History().LastAcknowledged() != seq {
		t.Fatalf("expected move %d to be acknowledged", seq)
	}
	if client.State().Position() == before {
		t.Fatal("expected correction to move the actor")
	}
	if offset := client.MeshOffset(); offset.Len() > client.Prediction().MaxSmoothNetUpdateDist()+1e-3 {
		t.Fatalf("mesh offset %v exceeds smoothing limit", offset)
	}
	if !client.Intent().WantsJetpack {
		t.Fatal("reconciling should keep the live intent")
	}
}

func TestReconcileReplaysCapturedWallNormals(t *testing.T) {
	c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	spawn, state := c.State().Snapshot(), c.Abilities().State()

	c.OnWallJumpPressed(mgl32.Vec3{1, 0, 0})
	c.PerformMove(Input{Delta: 1.0 / 64})
	c.PerformMove(Input{Delta: 1.0 / 64})
	c.OnWallJumpPressed(mgl32.Vec3{0, 1, 0})
	for range 4 {
		c.PerformMove(Input{Delta: 1.0 / 64})
	}
	predicted := c.State().Position()
	if predicted.X() <= 0 || predicted.Y() <= 0 {
		t.Fatalf("expected both wall jumps to push the actor, got %v", predicted)
	}

	if n := c.Reconcile(0, spawn, state); n != c.Prediction().History().Len() {
		t.Fatalf("expected every move to be replayed, replayed %d", n)
	}
	if got := c.State().Position(); !got.ApproxEqualThreshold(predicted, 1e-3) {
		t.Fatalf("replay diverged from prediction: %v != %v", got, predicted)
	}
	if c.Intent().WallNormal != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("reconciling should keep the live wall normal, got %v", c.Intent().WallNormal)
	}
}

func TestReconcileSnapsLargeCorrections(t *testing.T) {
	c := New(RolePredicting, DefaultConfig(), mgl32.Vec3{})
	for range 4 {
		c.PerformMove(Input{Delta: 1.0 / 64})
	}
	latest, _ := c.Prediction().History().Latest()
	c.Reconcile(latest.Base().Sequence, engine.Snapshot{Pos: mgl32.Vec3{1000, 0, 0}, OnGround: true}, ability.RuntimeState{})

	if c.MeshOffset() != (mgl32.Vec3{}) {
		t.Fatalf("expected large correction to snap, got offset %v", c.MeshOffset())
	}
	if c.State().Position() != (mgl32.Vec3{1000, 0, 0}) {
		t.Fatalf("expected authoritative position, got %v", c.State().Position())
	}
}
