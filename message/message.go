package message

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/ability"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/move"
	"github.com/oomph-ac/movement/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// ID identifies the type of a message on the wire.
type ID uint8

const (
	IDMoveBatch ID = iota
	IDAckGoodMove
	IDAdjustPosition
	IDSetFrameTime
	IDSetWallNormal

	idCount
)

// MaxBatchSize is the largest amount of moves a single batch may hold.
const MaxBatchSize = 128

// Message is a single message exchanged between a predicting and an authoritative peer.
type Message interface {
	ID() ID
	// Marshal reads or writes the fields of the message, depending on the IO given.
	Marshal(io protocol.IO)
}

var registry = map[ID]func() Message{
	IDMoveBatch:      func() Message { return &MoveBatch{} },
	IDAckGoodMove:    func() Message { return &AckGoodMove{} },
	IDAdjustPosition: func() Message { return &AdjustPosition{} },
	IDSetFrameTime:   func() Message { return &SetFrameTime{} },
	IDSetWallNormal:  func() Message { return &SetWallNormal{} },
}

// Move is a saved move as sent to the authoritative side.
type Move struct {
	Sequence uint32
	Ticks    uint16
	Delta    float32
	Accel    mgl32.Vec3
	Yaw      float32
	// Flags holds the compressed engine and ability flags of the move.
	Flags  byte
	EndPos mgl32.Vec3
}

// MoveFromSnapshot returns the wire representation of the saved move given.
func MoveFromSnapshot(m move.Snapshot) Move {
	base := m.Base()
	return Move{
		Sequence: base.Sequence,
		Ticks:    base.Ticks,
		Delta:    base.Delta,
		Accel:    base.Accel,
		Yaw:      base.Yaw,
		Flags:    m.CompressedFlags(),
		EndPos:   base.EndPos,
	}
}

// Base returns the engine part of the move. The ability flags stay compressed in Flags.
func (m Move) Base() move.BaseMove {
	return move.BaseMove{
		Sequence: m.Sequence,
		Ticks:    m.Ticks,
		Delta:    m.Delta,
		Accel:    m.Accel,
		Yaw:      m.Yaw,
		EndPos:   m.EndPos,
	}
}

func (m *Move) marshal(io protocol.IO) {
	io.Uint32(&m.Sequence)
	io.Uint16(&m.Ticks)
	io.Float32(&m.Delta)
	io.Vec3(&m.Accel)
	io.Float32(&m.Yaw)
	io.Uint8(&m.Flags)
	io.Vec3(&m.EndPos)
}

// MoveBatch carries every move captured since the previous batch, oldest first.
type MoveBatch struct {
	Moves []Move
}

// ID ...
func (*MoveBatch) ID() ID {
	return IDMoveBatch
}

// Marshal ...
func (pk *MoveBatch) Marshal(io protocol.IO) {
	l := uint32(len(pk.Moves))
	io.Varuint32(&l)
	if l > MaxBatchSize {
		panic(oerror.New("move batch holds %d moves, max is %d", l, MaxBatchSize))
	}
	if len(pk.Moves) != int(l) {
		pk.Moves = make([]Move, l)
	}
	for i := range pk.Moves {
		pk.Moves[i].marshal(io)
	}
}

// AckGoodMove tells the predicting side that every move up to Sequence was accepted.
type AckGoodMove struct {
	Sequence uint32
}

// ID ...
func (*AckGoodMove) ID() ID {
	return IDAckGoodMove
}

// Marshal ...
func (pk *AckGoodMove) Marshal(io protocol.IO) {
	io.Uint32(&pk.Sequence)
}

// AdjustPosition corrects the predicting side to the authoritative state after move Sequence.
type AdjustPosition struct {
	Sequence uint32

	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Yaw      float32
	Mode     uint8
	OnGround bool

	JetpackForce  float32
	JetpackActive bool
}

// NewAdjustPosition returns a correction holding the state and runtime ability state given.
func NewAdjustPosition(seq uint32, snap engine.Snapshot, state ability.RuntimeState) *AdjustPosition {
	return &AdjustPosition{
		Sequence:      seq,
		Position:      snap.Pos,
		Velocity:      snap.Vel,
		Yaw:           snap.Yaw,
		Mode:          uint8(snap.Mode),
		OnGround:      snap.OnGround,
		JetpackForce:  state.JetpackForce,
		JetpackActive: state.JetpackActive,
	}
}

// ID ...
func (*AdjustPosition) ID() ID {
	return IDAdjustPosition
}

// Marshal ...
func (pk *AdjustPosition) Marshal(io protocol.IO) {
	io.Uint32(&pk.Sequence)
	io.Vec3(&pk.Position)
	io.Vec3(&pk.Velocity)
	io.Float32(&pk.Yaw)
	io.Uint8(&pk.Mode)
	io.Bool(&pk.OnGround)
	io.Float32(&pk.JetpackForce)
	io.Bool(&pk.JetpackActive)
}

// Snapshot returns the movement state held by the correction.
func (pk *AdjustPosition) Snapshot() engine.Snapshot {
	return engine.Snapshot{
		Pos:      pk.Position,
		Vel:      pk.Velocity,
		Yaw:      pk.Yaw,
		Mode:     engine.Mode(pk.Mode),
		OnGround: pk.OnGround,
	}
}

// RuntimeState returns the ability state held by the correction.
func (pk *AdjustPosition) RuntimeState() ability.RuntimeState {
	return ability.RuntimeState{JetpackForce: pk.JetpackForce, JetpackActive: pk.JetpackActive}
}

// SetFrameTime carries the frame time of the predicting side.
type SetFrameTime struct {
	FrameTime float32
}

// ID ...
func (*SetFrameTime) ID() ID {
	return IDSetFrameTime
}

// Marshal ...
func (pk *SetFrameTime) Marshal(io protocol.IO) {
	io.Float32(&pk.FrameTime)
}

// SetWallNormal carries the normal of the wall the predicting side last asked to jump off.
type SetWallNormal struct {
	Normal mgl32.Vec3
}

// ID ...
func (*SetWallNormal) ID() ID {
	return IDSetWallNormal
}

// Marshal ...
func (pk *SetWallNormal) Marshal(io protocol.IO) {
	io.Vec3(&pk.Normal)
}
