package line

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"go.uber.org/zap"
)

// DefaultTimeout таймаут подключения и записи
const DefaultTimeout = 6 * time.Second

// Name имя транспорта в логах и результатах
const Name = "line"

// Sender отправляет метрики построчным текстовым протоколом (Graphite plaintext)
type Sender struct {
	addr    string
	timeout time.Duration
	log     *zap.Logger
}

// NewSender создаёт отправителя на host:port
func NewSender(host, port string, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		addr:    net.JoinHostPort(host, port),
		timeout: DefaultTimeout,
		log:     logger,
	}
}

// SetTimeout меняет таймаут подключения и записи
func (s *Sender) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// Addr адрес назначения
func (s *Sender) Addr() string {
	return s.addr
}

// Name имя транспорта
func (s *Sender) Name() string {
	return Name
}

// Encode собирает пачку в одну строку, каждая метрика завершается "\n"
func Encode(metrics []model.RenderedMetric) []byte {
	var sb strings.Builder
	for _, m := range metrics {
		sb.WriteString(m.Line())
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// Send открывает одно TCP соединение, пишет всю пачку одной записью
// и закрывает исходящую сторону соединения.
func (s *Sender) Send(ctx context.Context, metrics []model.RenderedMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return fmt.Errorf("set write deadline %s: %w", s.addr, err)
	}

	payload := Encode(metrics)
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write %s: %w", s.addr, err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return fmt.Errorf("shutdown %s: %w", s.addr, err)
		}
	}

	s.log.Debug("metrics written",
		zap.String("addr", s.addr),
		zap.Int("metrics_count", len(metrics)),
		zap.Int("bytes", len(payload)),
	)
	return nil
}
