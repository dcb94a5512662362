package transport

import (
	"net"

	"github.com/oomph-ac/movement/oerror"
)

// Conn is a connection that carries whole packets. Every packet written is read back as the same
// packet on the other end, in the order it was written.
type Conn interface {
	WritePacket(b []byte) error
	ReadPacket() ([]byte, error)
	Close() error
}

// Listener accepts packet connections.
type Listener interface {
	Accept() (Conn, error)
	Close() error
	Addr() net.Addr
}

// Network is the name of a network packets may be carried over.
type Network string

const (
	NetworkRakNet Network = "raknet"
	NetworkKCP    Network = "kcp"
)

// Listen starts listening on the network and address given.
func Listen(network Network, addr string) (Listener, error) {
	switch network {
	case NetworkRakNet:
		return ListenRakNet(addr)
	case NetworkKCP:
		return ListenKCP(addr)
	default:
		return nil, oerror.New("unsupported network %q", network)
	}
}

// Dial connects to the address given over the network given.
func Dial(network Network, addr string) (Conn, error) {
	switch network {
	case NetworkRakNet:
		return DialRakNet(addr)
	case NetworkKCP:
		return DialKCP(addr)
	default:
		return nil, oerror.New("unsupported network %q", network)
	}
}
