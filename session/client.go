package session

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/assert"
	"github.com/oomph-ac/movement/channel"
	"github.com/oomph-ac/movement/message"
	"github.com/oomph-ac/movement/move"
	"github.com/oomph-ac/movement/movement"
	"github.com/oomph-ac/movement/transport"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// ClientConfig configures the predicting end of a session.
type ClientConfig struct {
	// SendInterval is the amount of simulated time between two move batches.
	SendInterval float32
	// FrameTimeRate limits how often frame time changes are pushed. Zero means no limit.
	FrameTimeRate rate.Limit

	Log *logrus.Logger
}

// Client is the predicting end of a session. It runs its movement component locally and sends
// the moves it captured to the authoritative end, correcting itself when told to.
type Client struct {
	conf ClientConfig
	conn transport.Conn
	w    messageConn
	log  *logrus.Logger

	c      *movement.Component
	sender *channel.Sender
	in     inbox
	done   chan struct{}

	sinceSend float32

	sent        atomic.Uint64
	acks        atomic.Uint64
	corrections atomic.Uint64
}

// NewClient returns a client driving the predicting component given over conn.
func NewClient(conf ClientConfig, c *movement.Component, conn transport.Conn) *Client {
	assert.NotNil(conn, "session connection")
	if conf.Log == nil {
		conf.Log = logrus.StandardLogger()
	}
	cl := &Client{conf: conf, conn: conn, w: messageConn{conn: conn}, log: conf.Log, c: c, done: make(chan struct{})}

	var limiter *rate.Limiter
	if conf.FrameTimeRate > 0 {
		limiter = rate.NewLimiter(conf.FrameTimeRate, 1)
	}
	cl.sender = channel.NewSender(cl.w, limiter, conf.Log)
	c.SetAuxiliary(orderedAux{cl: cl})
	return cl
}

// orderedAux sends every move captured so far before pushing a changed auxiliary value, so that
// the authoritative side only applies the value to moves captured after the change.
type orderedAux struct {
	cl *Client
}

// PushFrameTime ...
func (a orderedAux) PushFrameTime(frameTime float32) {
	a.cl.Flush()
	a.cl.sender.PushFrameTime(frameTime)
}

// PushWallNormal ...
func (a orderedAux) PushWallNormal(normal mgl32.Vec3) {
	a.cl.Flush()
	a.cl.sender.PushWallNormal(normal)
}

// Start starts reading packets from the connection in the background.
func (cl *Client) Start() {
	go readLoop(cl.conn, cl.log, cl.HandlePacket, cl.done)
}

// Done returns a channel that is closed once the client stopped reading from its connection.
func (cl *Client) Done() <-chan struct{} {
	return cl.done
}

// Component ...
func (cl *Client) Component() *movement.Component {
	return cl.c
}

// HandlePacket decodes a packet received from the authoritative end. It is safe to call from any
// goroutine: the message is only acted upon on the next tick.
func (cl *Client) HandlePacket(b []byte) error {
	m, err := message.Decode(b)
	if err != nil {
		return err
	}
	switch m.(type) {
	case *message.AckGoodMove, *message.AdjustPosition:
		cl.in.push(m)
		return nil
	default:
		cl.log.Debugf("client ignored message %d", m.ID())
		return nil
	}
}

// Tick applies every pending answer of the authoritative end, runs a predicted move and sends the
// buffered moves if the send interval elapsed.
func (cl *Client) Tick(in movement.Input) move.Snapshot {
	cl.processInbox()

	m := cl.c.PerformMove(in)
	cl.sinceSend += in.Delta
	if cl.sinceSend >= cl.conf.SendInterval {
		cl.sinceSend = 0
		cl.Flush()
	}
	return m
}

// Flush sends every move that was not sent yet. Moves are only marked as sent once the batch
// holding them was written, so a failed write leaves them to the next flush.
func (cl *Client) Flush() {
	cl.sender.Flush()

	h := cl.c.Prediction().History()
	moves := h.Unsent()
	for len(moves) > 0 {
		n := min(len(moves), message.MaxBatchSize)
		batch := &message.MoveBatch{Moves: make([]message.Move, n)}
		for i, m := range moves[:n] {
			batch.Moves[i] = message.MoveFromSnapshot(m)
		}
		if err := cl.w.WriteMessage(batch); err != nil {
			cl.log.Errorf("unable to send %d moves: %v", n, err)
			return
		}
		h.MarkSent(moves[n-1].Base().Sequence)
		cl.sent.Add(uint64(n))
		moves = moves[n:]
	}
}

func (cl *Client) processInbox() {
	for _, m := range cl.in.drain() {
		switch m := m.(type) {
		case *message.AckGoodMove:
			cl.c.Acknowledge(m.Sequence)
			cl.acks.Inc()
		case *message.AdjustPosition:
			n := cl.c.Reconcile(m.Sequence, m.Snapshot(), m.RuntimeState())
			cl.corrections.Inc()
			cl.log.Debugf("corrected to move %d at %v, replayed %d moves", m.Sequence, m.Position, n)
		}
	}
}

// Sent returns the amount of moves sent, after merging.
func (cl *Client) Sent() uint64 {
	return cl.sent.Load()
}

// Acks returns the amount of acknowledgements received.
func (cl *Client) Acks() uint64 {
	return cl.acks.Load()
}

// Corrections returns the amount of corrections received.
func (cl *Client) Corrections() uint64 {
	return cl.corrections.Load()
}

// Close closes the connection of the client.
func (cl *Client) Close() error {
	return cl.conn.Close()
}
