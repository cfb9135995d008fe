package extractor

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/results"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/stats"
	"go.uber.org/zap"
)

// Поля времени в порядке приоритета
const (
	EventTimeField = "_time"
	IndexTimeField = "_indextime"
)

// Extractor превращает строки результата в метрики
type Extractor struct {
	policy    Policy
	nameField string
	now       func() time.Time
	stats     *stats.Run
	log       *zap.Logger
}

// Option настройка Extractor
type Option func(*Extractor)

// WithNameField поле, значение которого становится префиксом имени метрики
func WithNameField(field string) Option {
	return func(e *Extractor) {
		e.nameField = field
	}
}

// WithClock источник текущего времени для строк без _time и _indextime
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// WithStats счётчики запуска
func WithStats(run *stats.Run) Option {
	return func(e *Extractor) {
		e.stats = run
	}
}

// New создаёт Extractor
func New(policy Policy, logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		policy: policy,
		now:    time.Now,
		log:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract читает все строки и возвращает метрики в порядке строк и полей.
// Нечисловые и невыбранные поля пропускаются без ошибки.
func (e *Extractor) Extract(rows results.RowReader) ([]model.MetricSample, error) {
	var samples []model.MetricSample
	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
		e.stats.Inc(stats.RowsRead, 1)
		samples = e.appendRow(samples, row)
	}
}

// ExtractRow метрики одной строки
func (e *Extractor) ExtractRow(row model.Row) []model.MetricSample {
	return e.appendRow(nil, row)
}

func (e *Extractor) appendRow(dst []model.MetricSample, row model.Row) []model.MetricSample {
	var namePrefix string
	if e.nameField != "" {
		namePrefix, _ = row.Get(e.nameField)
	}

	ts := e.timestamp(row)

	for _, field := range row.Fields {
		value, isNumber := parseNumber(field.Value)
		if !isNumber {
			e.stats.Inc(stats.FieldsSkipped, 1)
			continue
		}
		if !e.policy.Selects(field.Key) {
			e.stats.Inc(stats.FieldsSkipped, 1)
			continue
		}

		name := field.Key
		if namePrefix != "" {
			name = namePrefix + "." + name
		}

		dst = append(dst, model.MetricSample{Name: name, Value: value, Timestamp: ts})
		e.stats.Inc(stats.SamplesTotal, 1)
	}
	return dst
}

// timestamp время строки: _time, затем _indextime, затем текущее время.
// Дробная часть секунд отбрасывается.
func (e *Extractor) timestamp(row model.Row) int64 {
	for _, key := range []string{EventTimeField, IndexTimeField} {
		raw, ok := row.Get(key)
		if !ok {
			continue
		}
		v, isNumber := parseNumber(raw)
		if isNumber && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v)
		}
		e.log.Debug("unparseable time field, trying next source",
			zap.String("field", key),
			zap.String("value", raw),
		)
	}
	return e.now().Unix()
}

// parseNumber разбирает значение поля как конечное число с плавающей точкой.
// Второе значение сообщает, удалось ли это сделать: ноль тоже валидная метрика.
// NaN и бесконечности числами не считаются.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
