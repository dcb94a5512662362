package transport

import (
	"net"

	"github.com/sandertv/go-raknet"
)

// ListenRakNet starts listening for RakNet connections on the address given.
func ListenRakNet(addr string) (Listener, error) {
	l, err := raknet.Listen(addr)
	if err != nil {
		return nil, err
	}
	return &rakNetListener{l: l}, nil
}

// DialRakNet connects to a RakNet listener.
func DialRakNet(addr string) (Conn, error) {
	conn, err := raknet.Dial(addr)
	if err != nil {
		return nil, err
	}
	return &rakNetConn{conn: conn}, nil
}

type rakNetListener struct {
	l *raknet.Listener
}

func (l *rakNetListener) Accept() (Conn, error) {
	conn, err := l.l.Accept()
	if err != nil {
		return nil, err
	}
	return &rakNetConn{conn: conn.(*raknet.Conn)}, nil
}

func (l *rakNetListener) Close() error {
	return l.l.Close()
}

func (l *rakNetListener) Addr() net.Addr {
	return l.l.Addr()
}

// rakNetConn sends every packet as a single reliable ordered RakNet message, so no framing is
// needed on top.
type rakNetConn struct {
	conn *raknet.Conn
}

func (c *rakNetConn) WritePacket(b []byte) error {
	_, err := c.conn.Write(b)
	return err
}

func (c *rakNetConn) ReadPacket() ([]byte, error) {
	return c.conn.ReadPacket()
}

func (c *rakNetConn) Close() error {
	return c.conn.Close()
}
