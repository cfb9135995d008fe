package series

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/service/compressor"
)

// RequestProcessor сериализует и при необходимости сжимает тело запроса
type RequestProcessor struct {
	useGzip           bool
	compressionLevel  int
	minSizeToCompress int
}

// NewRequestProcessor создает новый процессор запросов
func NewRequestProcessor(useGzip bool, compressionLevel int) (*RequestProcessor, error) {
	if compressionLevel < gzip.HuffmanOnly || compressionLevel > gzip.BestCompression {
		return nil, fmt.Errorf("compression level %d is out of valid range [%d, %d]", compressionLevel, gzip.HuffmanOnly, gzip.BestCompression)
	}

	return &RequestProcessor{
		useGzip:           useGzip,
		compressionLevel:  compressionLevel,
		minSizeToCompress: 32,
	}, nil
}

// ProcessRequest возвращает тело запроса и признак того, что оно сжато
func (rp *RequestProcessor) ProcessRequest(body interface{}) (io.Reader, bool, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("marshaling payload failed: %w", err)
	}

	if !rp.shouldCompress(jsonData) {
		return bytes.NewReader(jsonData), false, nil
	}

	compressed, err := compressor.Compress(jsonData, rp.compressionLevel)
	if err != nil {
		return nil, false, fmt.Errorf("compressing request body failed: %w", err)
	}
	return bytes.NewReader(compressed), true, nil
}

// shouldCompress проверяет нужно ли сжимать запрос
func (rp *RequestProcessor) shouldCompress(body []byte) bool {
	return rp.useGzip && len(body) >= rp.minSizeToCompress
}
