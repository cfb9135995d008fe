package dispatcher

//go:generate mockgen -destination=../mocks/transport_mock.go -package=mocks github.com/kazakovdmitriy/splunk-metrics-output/internal/dispatcher Transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/stats"
	"go.uber.org/zap"
)

// Transport отправляет пачку метрик в один бэкенд
type Transport interface {
	Name() string
	Send(ctx context.Context, metrics []model.RenderedMetric) error
}

// Result итог отправки через один транспорт
type Result struct {
	Transport string
	Attempted bool
	Sent      int
	Err       error
}

// Outcome итоги всех транспортов одной пачки
type Outcome struct {
	Results []Result
}

// Err объединяет ошибки транспортов, nil если все успешны или ничего не отправлялось
func (o Outcome) Err() error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Attempted true, если хотя бы один транспорт пытался отправить данные
func (o Outcome) Attempted() bool {
	for _, r := range o.Results {
		if r.Attempted {
			return true
		}
	}
	return false
}

// Dispatcher рассылает пачку по всем настроенным транспортам независимо друг от друга
type Dispatcher struct {
	transports []Transport
	noop       bool
	stats      *stats.Run
	log        *zap.Logger
}

// Option настройка Dispatcher
type Option func(*Dispatcher)

// WithNoop отключает отправку: транспорты не вызываются
func WithNoop(noop bool) Option {
	return func(d *Dispatcher) {
		d.noop = noop
	}
}

// WithStats счётчики запуска
func WithStats(run *stats.Run) Option {
	return func(d *Dispatcher) {
		d.stats = run
	}
}

// New создает Dispatcher
func New(transports []Transport, logger *zap.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		transports: transports,
		log:        logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch отправляет метрики. В режиме noop и для пустой пачки транспорты не вызываются.
// Ошибка одного транспорта не мешает попытке другого.
func (d *Dispatcher) Dispatch(ctx context.Context, metrics []model.RenderedMetric) Outcome {
	outcome := Outcome{Results: make([]Result, 0, len(d.transports))}

	if d.noop {
		d.log.Info("noop mode, dispatch skipped", zap.Int("metrics_count", len(metrics)))
		return outcome
	}
	if len(metrics) == 0 {
		d.log.Info("no metrics to send")
		return outcome
	}

	for _, t := range d.transports {
		start := time.Now()
		err := t.Send(ctx, metrics)
		d.stats.Time(t.Name(), time.Since(start))

		result := Result{Transport: t.Name(), Attempted: true}
		if err != nil {
			result.Err = fmt.Errorf("%w: %s: %w", model.ErrTransport, t.Name(), err)
			d.log.Error("transport failed",
				zap.String("transport", t.Name()),
				zap.Int("metrics_count", len(metrics)),
				zap.Error(err),
			)
		} else {
			result.Sent = len(metrics)
			d.stats.Inc(stats.MetricsSent, int64(len(metrics)))
			d.log.Info("metrics sent",
				zap.String("transport", t.Name()),
				zap.Int("metrics_count", len(metrics)),
			)
		}
		outcome.Results = append(outcome.Results, result)
	}

	return outcome
}
