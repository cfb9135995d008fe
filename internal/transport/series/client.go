package series

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"go.uber.org/zap"
)

// Name имя транспорта в логах и результатах
const Name = "http"

// DefaultTimeout таймаут HTTP клиента
const DefaultTimeout = 20 * time.Second

// APIKeyParam параметр запроса с ключом API
const APIKeyParam = "api_key"

// Config параметры HTTP транспорта
type Config struct {
	URL     string
	APIKey  string
	Method  string
	Host    string
	Tags    []string
	UseGzip bool
	Timeout time.Duration
	Headers map[string]string
}

// Client отправляет пачку метрик одним запросом в API приёма серий
type Client struct {
	endpoint          *url.URL
	method            string
	host              string
	tags              []string
	httpClient        *http.Client
	headers           map[string]string
	requestProcessor  *RequestProcessor
	responseProcessor *ResponseProcessor
	logger            *zap.Logger
}

// NewClient создает клиент. Ключ API добавляется в адрес параметром api_key.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint, err := url.Parse(normalizeURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", cfg.URL, err)
	}
	if cfg.APIKey != "" {
		query := endpoint.Query()
		query.Set(APIKeyParam, cfg.APIKey)
		endpoint.RawQuery = query.Encode()
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("unsupported api method %q", cfg.Method)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rp, err := NewRequestProcessor(cfg.UseGzip, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		endpoint: endpoint,
		method:   method,
		host:     cfg.Host,
		tags:     cfg.Tags,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers:           headers,
		requestProcessor:  rp,
		responseProcessor: &ResponseProcessor{},
		logger:            logger,
	}, nil
}

// normalizeURL нормализует URL
func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, ":") {
		url = "localhost" + url
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return url
}

// Name имя транспорта
func (c *Client) Name() string {
	return Name
}

// SetHeader устанавливает заголовок
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Send отправляет метрики одним запросом. Пустая пачка не отправляется.
func (c *Client) Send(ctx context.Context, metrics []model.RenderedMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	payload := BuildPayload(metrics, c.host, c.tags)
	if err := c.doRequest(ctx, payload); err != nil {
		c.logger.Error("failed to send series",
			zap.Int("metrics_count", len(metrics)),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("successfully sent series",
		zap.Int("metrics_count", len(metrics)),
	)
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, body interface{}) error {
	reader, compressed, err := c.requestProcessor.ProcessRequest(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request failed: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if compressed {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request failed: %w", redactError(err, c.endpoint))
	}
	defer resp.Body.Close()

	responseBody, readErr := c.responseProcessor.ProcessResponse(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}
	if readErr != nil {
		c.logger.Warn("failed to read response body", zap.Error(readErr))
	}

	return nil
}

// redactError убирает ключ API из текста ошибки клиента
func redactError(err error, endpoint *url.URL) error {
	if endpoint.Query().Get(APIKeyParam) == "" {
		return err
	}
	if urlErr, ok := err.(*url.Error); ok {
		redacted := *endpoint
		query := redacted.Query()
		query.Set(APIKeyParam, "REDACTED")
		redacted.RawQuery = query.Encode()
		return &url.Error{Op: urlErr.Op, URL: redacted.String(), Err: urlErr.Err}
	}
	return err
}
