package emitter

import (
	"fmt"
	"strconv"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
)

// Колонки выходной строки
const (
	MetricColumn = "metric"
	ValueColumn  = "value"
	TimeColumn   = "_time"
)

// Columns порядок колонок выходных строк
var Columns = []string{MetricColumn, ValueColumn, TimeColumn}

// ToOutputRows превращает метрики в строки {metric, value, _time} для вывода
func ToOutputRows(rendered []model.RenderedMetric) []model.Row {
	rows := make([]model.Row, len(rendered))
	for i, m := range rendered {
		rows[i] = model.NewRow(
			MetricColumn, m.Name,
			ValueColumn, model.FormatValue(m.Value),
			TimeColumn, strconv.FormatInt(m.Timestamp, 10),
		)
	}
	return rows
}

// ParseOutputRow восстанавливает метрику из выходной строки
func ParseOutputRow(row model.Row) (model.RenderedMetric, error) {
	name, ok := row.Get(MetricColumn)
	if !ok || name == "" {
		return model.RenderedMetric{}, fmt.Errorf("row has no %q column", MetricColumn)
	}

	rawValue, _ := row.Get(ValueColumn)
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return model.RenderedMetric{}, fmt.Errorf("parse %q: %w", ValueColumn, err)
	}

	rawTime, _ := row.Get(TimeColumn)
	ts, err := strconv.ParseInt(rawTime, 10, 64)
	if err != nil {
		return model.RenderedMetric{}, fmt.Errorf("parse %q: %w", TimeColumn, err)
	}

	return model.RenderedMetric{Name: name, Value: value, Timestamp: ts}, nil
}
