package model

import (
	"math"
	"strconv"
	"strings"
)

// MetricSample одно наблюдение, извлечённое из поля строки
type MetricSample struct {
	Name      string
	Value     float64
	Timestamp int64
}

// RenderedMetric метрика с полным именем (prefix.namespace.name)
type RenderedMetric struct {
	Name      string
	Value     float64
	Timestamp int64
}

// Line возвращает метрику в формате "<name> <value> <timestamp>" без перевода строки
func (m RenderedMetric) Line() string {
	var sb strings.Builder
	sb.Grow(len(m.Name) + 32)
	sb.WriteString(m.Name)
	sb.WriteByte(' ')
	sb.WriteString(FormatValue(m.Value))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatInt(m.Timestamp, 10))
	return sb.String()
}

// FormatValue форматирует значение метрики: целые числа получают суффикс ".0",
// очень маленькие и очень большие значения выводятся в экспоненциальной форме.
//
//	10      -> 10.0
//	42.5    -> 42.5
//	1e16    -> 1e+16
//	0.00001 -> 1e-05
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
