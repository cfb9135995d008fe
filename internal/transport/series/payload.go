package series

import (
	"encoding/json"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
)

// GaugeType тип всех отправляемых серий
const GaugeType = "gauge"

// Point точка серии, сериализуется как [timestamp, value]
type Point struct {
	Timestamp int64
	Value     float64
}

// MarshalJSON кодирует точку массивом из двух элементов
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Timestamp, p.Value})
}

// UnmarshalJSON разбирает точку из массива [timestamp, value]
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw [2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Timestamp = int64(raw[0])
	p.Value = raw[1]
	return nil
}

// Series одна серия в теле запроса
type Series struct {
	Metric string   `json:"metric"`
	Points []Point  `json:"points"`
	Type   string   `json:"type"`
	Host   string   `json:"host"`
	Tags   []string `json:"tags"`
}

// Payload тело запроса {"series": [...]}
type Payload struct {
	Series []Series `json:"series"`
}

// BuildPayload строит по одной серии на метрику
func BuildPayload(metrics []model.RenderedMetric, host string, tags []string) Payload {
	if tags == nil {
		tags = []string{}
	}

	series := make([]Series, len(metrics))
	for i, m := range metrics {
		series[i] = Series{
			Metric: m.Name,
			Points: []Point{{Timestamp: m.Timestamp, Value: m.Value}},
			Type:   GaugeType,
			Host:   host,
			Tags:   tags,
		}
	}
	return Payload{Series: series}
}
