package session

import (
	"errors"
	"net"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/movement/message"
	"github.com/oomph-ac/movement/transport"
	"github.com/sirupsen/logrus"
)

// messageConn writes messages to a packet connection.
type messageConn struct {
	conn transport.Conn
}

// WriteMessage ...
func (c messageConn) WriteMessage(m message.Message) error {
	b, err := message.Encode(m)
	if err != nil {
		return err
	}
	return c.conn.WritePacket(b)
}

// inbox holds decoded messages until the next tick of the actor they are meant for.
type inbox struct {
	mu       sync.Mutex
	messages []message.Message
}

func (i *inbox) push(m message.Message) {
	i.mu.Lock()
	i.messages = append(i.messages, m)
	i.mu.Unlock()
}

func (i *inbox) drain() []message.Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	messages := i.messages
	i.messages = nil
	return messages
}

// readLoop reads packets from conn until it is closed, passing each to handle. Packets that fail
// to decode are logged and dropped. done is closed once the loop returns.
func readLoop(conn transport.Conn, log *logrus.Logger, handle func(b []byte) error, done chan struct{}) {
	defer close(done)
	defer sentry.Recover()

	for {
		b, err := conn.ReadPacket()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Errorf("unable to read packet: %v", err)
			}
			return
		}
		if err := handle(b); err != nil {
			log.Warnf("dropped packet: %v", err)
		}
	}
}
