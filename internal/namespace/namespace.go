package namespace

import (
	"strings"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
)

// DefaultNamespace пространство имён по умолчанию
const DefaultNamespace = "splunk.search"

// Join собирает полное имя метрики: [prefix.]namespace.name.
// Пустые prefix и namespace опускаются целиком.
func Join(prefix, namespace, name string) string {
	segments := make([]string, 0, 3)
	if prefix != "" {
		segments = append(segments, prefix)
	}
	if namespace != "" {
		segments = append(segments, namespace)
	}
	segments = append(segments, name)
	return strings.Join(segments, ".")
}

// Render строит полные имена метрик, порядок сохраняется
func Render(samples []model.MetricSample, namespace, prefix string) []model.RenderedMetric {
	rendered := make([]model.RenderedMetric, len(samples))
	for i, s := range samples {
		rendered[i] = model.RenderedMetric{
			Name:      Join(prefix, namespace, s.Name),
			Value:     s.Value,
			Timestamp: s.Timestamp,
		}
	}
	return rendered
}
