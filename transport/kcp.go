package transport

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/oomph-ac/movement/oerror"
	kcp "github.com/xtaci/kcp-go/v5"
)

// MaxPacketSize is the largest packet that can be carried over KCP.
const MaxPacketSize = 1 << 16

// ListenKCP starts listening for KCP sessions on the address given.
func ListenKCP(addr string) (Listener, error) {
	l, err := kcp.ListenWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	return &kcpListener{l: l}, nil
}

// DialKCP opens a KCP session to the address given.
func DialKCP(addr string) (Conn, error) {
	sess, err := kcp.DialWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	return newKCPConn(sess), nil
}

type kcpListener struct {
	l *kcp.Listener
}

func (l *kcpListener) Accept() (Conn, error) {
	sess, err := l.l.AcceptKCP()
	if err != nil {
		return nil, err
	}
	return newKCPConn(sess), nil
}

func (l *kcpListener) Close() error {
	return l.l.Close()
}

func (l *kcpListener) Addr() net.Addr {
	return l.l.Addr()
}

// kcpConn frames packets with a big endian length prefix, as KCP runs in stream mode.
type kcpConn struct {
	sess *kcp.UDPSession
	mu   sync.Mutex
}

func newKCPConn(sess *kcp.UDPSession) *kcpConn {
	sess.SetStreamMode(true)
	sess.SetNoDelay(1, 10, 2, 1)
	return &kcpConn{sess: sess}
}

func (c *kcpConn) WritePacket(b []byte) error {
	if len(b) > MaxPacketSize {
		return oerror.New("packet of %d bytes exceeds max size %d", len(b), MaxPacketSize)
	}
	frame := make([]byte, 4, 4+len(b))
	binary.BigEndian.PutUint32(frame, uint32(len(b)))
	frame = append(frame, b...)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.sess.Write(frame)
	return err
}

func (c *kcpConn) ReadPacket() ([]byte, error) {
	var length uint32
	if err := binary.Read(c.sess, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxPacketSize {
		return nil, oerror.New("packet of %d bytes exceeds max size %d", length, MaxPacketSize)
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(c.sess, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *kcpConn) Close() error {
	return c.sess.Close()
}
