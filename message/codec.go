package message

import (
	"bytes"
	"encoding/binary"

	"github.com/oomph-ac/movement/internal"
	"github.com/oomph-ac/movement/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/zeebo/xxh3"
)

const checksumSize = 8

// Encode returns the wire form of the message: its ID, its fields and an xxh3 checksum of both.
func Encode(m Message) (b []byte, err error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	defer func() {
		if r := recover(); r != nil {
			err = oerror.New("encode message %d: %v", m.ID(), r)
		}
	}()

	buf.WriteByte(byte(m.ID()))
	m.Marshal(protocol.NewWriter(buf, 0))

	b = make([]byte, buf.Len(), buf.Len()+checksumSize)
	copy(b, buf.Bytes())
	return binary.LittleEndian.AppendUint64(b, xxh3.Hash(b)), nil
}

// Decode reads a message previously produced by Encode. Corrupted or truncated data, unknown IDs
// and trailing bytes all result in an error.
func Decode(b []byte) (m Message, err error) {
	if len(b) < 1+checksumSize {
		return nil, oerror.New("message too short (%d bytes)", len(b))
	}
	data, sum := b[:len(b)-checksumSize], binary.LittleEndian.Uint64(b[len(b)-checksumSize:])
	if xxh3.Hash(data) != sum {
		return nil, oerror.New("message checksum mismatch")
	}

	id := ID(data[0])
	f, ok := registry[id]
	if !ok {
		return nil, oerror.New("unknown message id %d", id)
	}
	m = f()

	defer func() {
		if r := recover(); r != nil {
			m, err = nil, oerror.New("decode message %d: %v", id, r)
		}
	}()
	buf := bytes.NewBuffer(data[1:])
	m.Marshal(protocol.NewReader(buf, 0, false))
	if buf.Len() != 0 {
		return nil, oerror.New("message %d has %d trailing bytes", id, buf.Len())
	}
	return m, nil
}
