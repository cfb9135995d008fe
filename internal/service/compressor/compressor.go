package compressor

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"

	"github.com/kazakovdmitriy/splunk-metrics-output/pkg/objpool"
)

// gzipMagic первые байты любого gzip потока
var gzipMagic = []byte{0x1f, 0x8b}

const maxPooledBuffer = 1 << 20

var buffers = objpool.New(
	func() *bytes.Buffer { return new(bytes.Buffer) },
	func(b *bytes.Buffer) bool { return b.Cap() <= maxPooledBuffer },
)

// Compress сжимает данные gzip с указанным уровнем
func Compress(data []byte, level int) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	buf := buffers.Get()
	defer buffers.Put(buf)

	gz, err := gzip.NewWriterLevel(buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Decompress распаковывает gzip данные целиком
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// NewReader возвращает потоковый reader. Если поток не начинается с gzip заголовка,
// данные отдаются как есть.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return io.NopCloser(br), nil
	}

	return gzip.NewReader(br)
}
