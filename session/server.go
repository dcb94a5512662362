package session

import (
	"math"

	"github.com/oomph-ac/movement/assert"
	"github.com/oomph-ac/movement/channel"
	"github.com/oomph-ac/movement/message"
	"github.com/oomph-ac/movement/movement"
	"github.com/oomph-ac/movement/transport"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// DefaultCorrectionThreshold is the distance between the predicted and authoritative position
// past which a correction is sent.
const DefaultCorrectionThreshold = 3

// DefaultMaxMoveTicks is the default of ServerConfig.MaxMoveTicks.
const DefaultMaxMoveTicks = 64

// ServerConfig configures the authoritative end of a session.
type ServerConfig struct {
	CorrectionThreshold float32
	// MaxMoveDelta is the longest time span a single received move may cover. Longer moves are
	// shortened to it.
	MaxMoveDelta float32
	// MaxMoveTicks is the largest amount of ticks a single received move may be merged from.
	// Moves covering more ticks are rejected. Zero uses DefaultMaxMoveTicks.
	MaxMoveTicks uint16

	Log *logrus.Logger
}

// Server is the authoritative end of a session. It replays the moves received from the
// predicting end on its own movement component and answers every batch with either an
// acknowledgement or a correction.
type Server struct {
	conf ServerConfig
	conn transport.Conn
	w    messageConn
	log  *logrus.Logger

	c    *movement.Component
	recv *channel.Receiver
	in   inbox
	done chan struct{}

	lastSequence uint32

	processed   atomic.Uint64
	rejected    atomic.Uint64
	corrections atomic.Uint64
}

// NewServer returns a server driving the authoritative component given over conn.
func NewServer(conf ServerConfig, c *movement.Component, conn transport.Conn) *Server {
	assert.NotNil(conn, "session connection")
	if conf.Log == nil {
		conf.Log = logrus.StandardLogger()
	}
	if conf.CorrectionThreshold <= 0 {
		conf.CorrectionThreshold = DefaultCorrectionThreshold
	}
	if conf.MaxMoveTicks == 0 {
		conf.MaxMoveTicks = DefaultMaxMoveTicks
	}
	return &Server{
		conf: conf,
		conn: conn,
		w:    messageConn{conn: conn},
		log:  conf.Log,
		c:    c,
		recv: channel.NewReceiver(),
		done: make(chan struct{}),
	}
}

// Start starts reading packets from the connection in the background.
func (s *Server) Start() {
	go readLoop(s.conn, s.log, s.HandlePacket, s.done)
}

// Done returns a channel that is closed once the server stopped reading from its connection.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Component ...
func (s *Server) Component() *movement.Component {
	return s.c
}

// Receiver returns the auxiliary values received from the predicting end.
func (s *Server) Receiver() *channel.Receiver {
	return s.recv
}

// HandlePacket decodes a packet received from the predicting end. Auxiliary values and moves are
// both queued until the next tick, which handles them in the order they arrived.
func (s *Server) HandlePacket(b []byte) error {
	m, err := message.Decode(b)
	if err != nil {
		return err
	}
	switch m.(type) {
	case *message.MoveBatch, *message.SetFrameTime, *message.SetWallNormal:
		s.in.push(m)
	default:
		s.log.Debugf("server ignored message %d", m.ID())
	}
	return nil
}

// Tick handles every message received since the previous tick. An auxiliary value only applies
// to the moves received after it.
func (s *Server) Tick() {
	for _, m := range s.in.drain() {
		if s.recv.Handle(m) {
			continue
		}
		s.processBatch(m.(*message.MoveBatch))
	}
}

func (s *Server) processBatch(batch *message.MoveBatch) {
	var (
		last      message.Move
		processed bool
		errLen    float32
	)
	for _, m := range batch.Moves {
		if !s.valid(m) {
			s.rejected.Inc()
			continue
		}
		if s.conf.MaxMoveDelta > 0 && m.Delta > s.conf.MaxMoveDelta {
			m.Delta = s.conf.MaxMoveDelta
		}

		s.recv.ApplyTo(s.c.Intent())
		s.c.ServerMove(m.Base(), m.Flags)
		s.lastSequence = m.Sequence
		s.processed.Inc()

		last, processed = m, true
		errLen = s.c.State().Position().Sub(m.EndPos).Len()
	}
	if !processed {
		return
	}

	var answer message.Message = &message.AckGoodMove{Sequence: last.Sequence}
	if errLen > s.conf.CorrectionThreshold {
		answer = message.NewAdjustPosition(last.Sequence, s.c.State().Snapshot(), s.c.Abilities().State())
		s.corrections.Inc()
		s.log.Debugf("move %d off by %f, correcting to %v", last.Sequence, errLen, s.c.State().Position())
	}
	if err := s.w.WriteMessage(answer); err != nil {
		s.log.Errorf("unable to answer move %d: %v", last.Sequence, err)
	}
}

// valid returns false for moves that were already processed or that cannot be simulated.
func (s *Server) valid(m message.Move) bool {
	if m.Sequence <= s.lastSequence {
		return false
	}
	if m.Ticks == 0 || m.Ticks > s.conf.MaxMoveTicks || !(m.Delta > 0) || math.IsInf(float64(m.Delta), 0) {
		return false
	}
	return !hasNaN(m.Accel[:]...) && !hasNaN(m.EndPos[:]...) && !hasNaN(m.Yaw)
}

func hasNaN(values ...float32) bool {
	for _, v := range values {
		if v != v {
			return true
		}
	}
	return false
}

// LastSequence returns the sequence of the last move processed.
func (s *Server) LastSequence() uint32 {
	return s.lastSequence
}

// Processed returns the amount of moves processed.
func (s *Server) Processed() uint64 {
	return s.processed.Load()
}

// Rejected returns the amount of moves dropped as invalid or out of date.
func (s *Server) Rejected() uint64 {
	return s.rejected.Load()
}

// Corrections returns the amount of corrections sent.
func (s *Server) Corrections() uint64 {
	return s.corrections.Load()
}

// Close closes the connection of the server.
func (s *Server) Close() error {
	return s.conn.Close()
}
