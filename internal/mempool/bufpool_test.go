package mempool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuffer_ReturnsEmptyBuffer(t *testing.T) {
	buf := GetBuffer()
	require.NotNil(t, buf)
	assert.Zero(t, buf.Len())

	buf.WriteString("some data")
	PutBuffer(buf)

	again := GetBuffer()
	assert.Zero(t, again.Len(), "recycled buffer must come back reset")
	PutBuffer(again)
}

func TestPutBuffer_NilIsSafe(t *testing.T) {
	assert.NotPanics(t, func() { PutBuffer(nil) })
}

func TestPutBuffer_DropsOversized(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.Grow(8 << 20)
	assert.NotPanics(t, func() { PutBuffer(buf) })
}

func TestBufferPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := GetBuffer()
				buf.WriteString("payload")
				PutBuffer(buf)
			}
		}()
	}
	wg.Wait()
}
