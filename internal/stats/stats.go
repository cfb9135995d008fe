package stats

import (
	"time"

	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"
)

const (
	RowsRead      = "rows_read"
	FieldsSkipped = "fields_skipped"
	SamplesTotal  = "samples"
	MetricsSent   = "metrics_sent"
)

// Run счётчики одного запуска. Не разделяется между запусками.
type Run struct {
	registry metrics.Registry
}

// New создаёт пустую статистику запуска
func New() *Run {
	return &Run{registry: metrics.NewRegistry()}
}

// Inc увеличивает счётчик на delta
func (r *Run) Inc(name string, delta int64) {
	if r == nil {
		return
	}
	metrics.GetOrRegisterCounter(name, r.registry).Inc(delta)
}

// Count текущее значение счётчика
func (r *Run) Count(name string) int64 {
	if r == nil {
		return 0
	}
	if c, ok := r.registry.Get(name).(metrics.Counter); ok {
		return c.Count()
	}
	return 0
}

// Time записывает длительность операции транспорта
func (r *Run) Time(transport string, d time.Duration) {
	if r == nil {
		return
	}
	metrics.GetOrRegisterTimer("transport."+transport, r.registry).Update(d)
}

// Fields отдаёт накопленные значения в виде полей zap
func (r *Run) Fields() []zap.Field {
	if r == nil {
		return nil
	}

	var fields []zap.Field
	r.registry.Each(func(name string, m interface{}) {
		switch m := m.(type) {
		case metrics.Counter:
			fields = append(fields, zap.Int64(name, m.Snapshot().Count()))
		case metrics.Timer:
			fields = append(fields, zap.Duration(name, time.Duration(m.Snapshot().Max())))
		}
	})
	return fields
}
