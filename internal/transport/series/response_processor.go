package series

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/service/compressor"
)

// maxResponseBody сколько байт ответа сохраняется в тексте ошибки
const maxResponseBody = 4096

// ResponseProcessor обрабатывает ответы
type ResponseProcessor struct{}

// ProcessResponse читает тело ответа, распаковывая gzip
func (rp *ResponseProcessor) ProcessResponse(resp *http.Response) ([]byte, error) {
	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	if isGzipEncoding(resp.Header.Get("Content-Encoding")) {
		decompressed, err := compressor.Decompress(rawBody)
		if err != nil {
			return nil, fmt.Errorf("decompressing response body failed: %w", err)
		}
		return decompressed, nil
	}

	return rawBody, nil
}

// isGzipEncoding проверяет gzip кодировку
func isGzipEncoding(enc string) bool {
	for _, part := range strings.Split(enc, ",") {
		if strings.TrimSpace(strings.ToLower(part)) == "gzip" {
			return true
		}
	}
	return false
}
