package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds the buffers messages are encoded into.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}
