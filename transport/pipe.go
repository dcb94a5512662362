package transport

import (
	"net"
	"sync"
)

// pipeBufferSize is the amount of packets that can be in flight in each direction of a pipe.
const pipeBufferSize = 256

// Pipe returns two connected in-memory connections. Writes block once the buffer of the peer is
// full, and both ends fail with net.ErrClosed once either is closed.
func Pipe() (Conn, Conn) {
	closed := make(chan struct{})
	once := &sync.Once{}
	ab, ba := make(chan []byte, pipeBufferSize), make(chan []byte, pipeBufferSize)
	return &pipeConn{in: ba, out: ab, closed: closed, once: once}, &pipeConn{in: ab, out: ba, closed: closed, once: once}
}

type pipeConn struct {
	in, out chan []byte
	closed  chan struct{}
	once    *sync.Once
}

// WritePacket ...
func (c *pipeConn) WritePacket(b []byte) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	select {
	case c.out <- append([]byte(nil), b...):
		return nil
	case <-c.closed:
		return net.ErrClosed
	}
}

// ReadPacket ...
func (c *pipeConn) ReadPacket() ([]byte, error) {
	select {
	case b := <-c.in:
		return b, nil
	case <-c.closed:
		return nil, net.ErrClosed
	}
}

// Close ...
func (c *pipeConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
	})
	return nil
}
