package mempool

import (
	"bytes"
	"sync"
)

// A simple pool for byte buffers to reduce allocations on the PNG
// encoding hot path.

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// GetBuffer retrieves an empty buffer from the pool. The caller must
// return it via PutBuffer when done; bytes handed out of the buffer
// must be copied first.
func GetBuffer() *bytes.Buffer {
	buf, ok := bufPool.Get().(*bytes.Buffer)
	if !ok {
		return new(bytes.Buffer)
	}
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. Oversized buffers are dropped
// so one huge render does not pin memory for the rest of the process.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	const maxRetainedBytes = 4 << 20
	if buf.Cap() > maxRetainedBytes {
		return
	}
	bufPool.Put(buf)
}
