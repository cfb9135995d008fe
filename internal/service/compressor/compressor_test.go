package compressor

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompress(t *testing.T) {
	data := []byte(`{"series":[{"metric":"splunk.search.cpu"}]}`)

	compressed, err := Compress(data, gzip.BestSpeed)
	require.NoError(t, err)
	assert.NotEqual(t, data, compressed)

	plain, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, plain)
}

func TestCompress_Empty(t *testing.T) {
	out, err := Compress(nil, gzip.DefaultCompression)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompress_InvalidLevel(t *testing.T) {
	_, err := Compress([]byte("x"), 100)
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	payload := []byte("a,b\n1,2\n")
	compressed, err := Compress(payload, gzip.DefaultCompression)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "gzip stream", input: compressed},
		{name: "plain stream", input: payload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tt.input))
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestNewReader_Empty(t *testing.T) {
	r, err := NewReader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewReader_CorruptGzip(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x1f, 0x8b, 0x00}))
	assert.Error(t, err)
}
