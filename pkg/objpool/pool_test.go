package objpool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_ResetOnPut(t *testing.T) {
	p := New(func() *bytes.Buffer { return new(bytes.Buffer) }, nil)

	buf := p.Get()
	buf.WriteString("splunk.search.count 1.0 1")
	p.Put(buf)

	// sync.Pool может вернуть как тот же, так и новый буфер; оба должны быть пустыми
	assert.Zero(t, p.Get().Len())
}

func TestPool_KeepFilter(t *testing.T) {
	created := 0
	p := New(
		func() *bytes.Buffer {
			created++
			return new(bytes.Buffer)
		},
		func(b *bytes.Buffer) bool { return b.Cap() <= 16 },
	)

	big := p.Get()
	big.Write(make([]byte, 1024))
	p.Put(big)

	assert.Equal(t, 1024, big.Len(), "rejected object is not reset")
	assert.Equal(t, 1, created)
}
