package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/config"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/dispatcher"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/emitter"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/extractor"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/hostinfo"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/namespace"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/results"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/stats"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/transport/line"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/transport/series"
)

// TransportFactory собирает транспорты, включённые в конфигурации
type TransportFactory func(ctx context.Context, cfg config.DispatchConfig, logger *zap.Logger) ([]dispatcher.Transport, error)

// Processor один проход: извлечение, именование, отправка, вывод
type Processor struct {
	log        *zap.Logger
	now        func() time.Time
	transports TransportFactory
}

// Option настройка Processor
type Option func(*Processor)

// WithClock источник текущего времени для строк без _time и _indextime
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// WithTransports подменяет сборку транспортов
func WithTransports(factory TransportFactory) Option {
	return func(p *Processor) {
		p.transports = factory
	}
}

// New создает Processor
func New(logger *zap.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		log:        logger,
		now:        time.Now,
		transports: DefaultTransports,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process превращает строки результата в метрики, отправляет их и возвращает
// строки {metric, value, _time}. При любой ошибке строки не возвращаются.
func (p *Processor) Process(ctx context.Context, cfg config.DispatchConfig, rows results.RowReader) ([]model.Row, error) {
	run := stats.New()
	log := p.log.With(zap.String("mode", string(cfg.Mode)))

	ext := extractor.New(
		extractor.Explicit(cfg.SelectedFields...),
		log,
		extractor.WithNameField(cfg.NameField),
		extractor.WithClock(p.now),
		extractor.WithStats(run),
	)
	samples, err := ext.Extract(rows)
	if err != nil {
		return nil, fmt.Errorf("extract metrics: %w", err)
	}

	rendered := namespace.Render(samples, cfg.Namespace, cfg.Prefix)

	transports, err := p.transports(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build transports: %w", err)
	}

	outcome := dispatcher.New(transports, log,
		dispatcher.WithNoop(cfg.Noop),
		dispatcher.WithStats(run),
	).Dispatch(ctx, rendered)

	log.Info("run finished", run.Fields()...)

	if err := outcome.Err(); err != nil {
		return nil, err
	}
	return emitter.ToOutputRows(rendered), nil
}

// DefaultTransports построчный транспорт и/или клиент API серий по конфигурации
func DefaultTransports(ctx context.Context, cfg config.DispatchConfig, logger *zap.Logger) ([]dispatcher.Transport, error) {
	var transports []dispatcher.Transport

	if cfg.LineEnabled() {
		transports = append(transports, line.NewSender(cfg.LineHost, cfg.LinePort, logger))
	}

	if cfg.HTTPEnabled() {
		client, err := series.NewClient(series.Config{
			URL:     cfg.APIURL,
			APIKey:  cfg.APIKey,
			Method:  cfg.APIMethod,
			Host:    hostinfo.Hostname(ctx),
			Tags:    cfg.Tags,
			UseGzip: cfg.Gzip,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrConfig, err)
		}
		transports = append(transports, client)
	}

	return transports, nil
}
