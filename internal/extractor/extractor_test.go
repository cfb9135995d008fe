package extractor

import (
	"errors"
	"testing"
	"time"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/results"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func fixedClock(sec int64) func() time.Time {
	return func() time.Time {
		return time.Unix(sec, 750_000_000)
	}
}

func TestPolicy_Implicit(t *testing.T) {
	p := Implicit()

	tests := []struct {
		key      string
		expected bool
	}{
		{key: "cpu", expected: true},
		{key: "bytes_in", expected: true},
		{key: "_raw", expected: false},
		{key: "_time", expected: false},
		{key: "date_wday", expected: false},
		{key: "date_hour", expected: false},
		{key: "linecount", expected: false},
		{key: "timeendpos", expected: false},
		{key: "timestartpos", expected: false},
		{key: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Selects(tt.key))
		})
	}
}

func TestPolicy_Explicit(t *testing.T) {
	p := Explicit("cpu", "_special")

	assert.True(t, p.IsExplicit())
	assert.True(t, p.Selects("cpu"))
	assert.True(t, p.Selects("_special"))
	assert.False(t, p.Selects("mem"))
}

func TestPolicy_ExplicitEmpty(t *testing.T) {
	p := Explicit()

	assert.False(t, p.IsExplicit())
	assert.True(t, p.Selects("cpu"))
}

func TestExtract_NameField(t *testing.T) {
	logger := zaptest.NewLogger(t)
	e := New(Implicit(), logger, WithNameField("host"))

	samples := e.ExtractRow(model.NewRow("host", "web1", "cpu", "42.5", "_time", "1000"))

	require.Len(t, samples, 1)
	assert.Equal(t, model.MetricSample{Name: "web1.cpu", Value: 42.5, Timestamp: 1000}, samples[0])
}

func TestExtract_NameFieldMissingInRow(t *testing.T) {
	e := New(Implicit(), zaptest.NewLogger(t), WithNameField("host"))

	samples := e.ExtractRow(model.NewRow("cpu", "1", "_time", "5"))

	require.Len(t, samples, 1)
	assert.Equal(t, "cpu", samples[0].Name)
}

func TestExtract_ZeroIsEmitted(t *testing.T) {
	e := New(Implicit(), zaptest.NewLogger(t))

	samples := e.ExtractRow(model.NewRow("_time", "1000", "errors", "0", "latency", "0.0"))

	require.Len(t, samples, 2)
	assert.Equal(t, model.MetricSample{Name: "errors", Value: 0, Timestamp: 1000}, samples[0])
	assert.Equal(t, model.MetricSample{Name: "latency", Value: 0, Timestamp: 1000}, samples[1])
}

func TestExtract_ImplicitSkipsReservedFields(t *testing.T) {
	e := New(Implicit(), zaptest.NewLogger(t))

	samples := e.ExtractRow(model.NewRow(
		"_raw", "123",
		"_time", "1000",
		"date_wday", "3",
		"linecount", "1",
		"timeendpos", "20",
		"timestartpos", "0",
		"count", "7",
	))

	require.Len(t, samples, 1)
	assert.Equal(t, "count", samples[0].Name)
	for _, s := range samples {
		assert.NotEqual(t, "_raw", s.Name)
		assert.NotEqual(t, "date_wday", s.Name)
	}
}

func TestExtract_ExplicitPolicy(t *testing.T) {
	e := New(Explicit("mem"), zaptest.NewLogger(t))

	samples := e.ExtractRow(model.NewRow("_time", "1", "cpu", "2", "mem", "3"))

	require.Len(t, samples, 1)
	assert.Equal(t, model.MetricSample{Name: "mem", Value: 3, Timestamp: 1}, samples[0])
}

func TestExtract_NonNumericSkipped(t *testing.T) {
	run := stats.New()
	e := New(Implicit(), zaptest.NewLogger(t), WithStats(run))

	samples := e.ExtractRow(model.NewRow(
		"_time", "1",
		"status", "ok",
		"empty", "",
		"ratio", "NaN",
		"peak", "Inf",
		"floor", "-infinity",
		"bytes", " 512 ",
	))

	require.Len(t, samples, 1)
	assert.Equal(t, model.MetricSample{Name: "bytes", Value: 512, Timestamp: 1}, samples[0])
	assert.Equal(t, int64(6), run.Count(stats.FieldsSkipped))
	assert.Equal(t, int64(1), run.Count(stats.SamplesTotal))
}

func TestExtract_TimestampPriority(t *testing.T) {
	tests := []struct {
		name     string
		row      model.Row
		expected int64
	}{
		{
			name:     "event time wins",
			row:      model.NewRow("_indextime", "2000", "_time", "1000.9", "v", "1"),
			expected: 1000,
		},
		{
			name:     "index time fallback",
			row:      model.NewRow("_indextime", "2000.5", "v", "1"),
			expected: 2000,
		},
		{
			name:     "wall clock fallback",
			row:      model.NewRow("v", "1"),
			expected: 1700000000,
		},
		{
			name:     "unparseable event time falls through",
			row:      model.NewRow("_time", "yesterday", "_indextime", "3000", "v", "1"),
			expected: 3000,
		},
		{
			name:     "nan event time falls through",
			row:      model.NewRow("_time", "nan", "v", "1"),
			expected: 1700000000,
		},
		{
			name:     "event time beyond int64 falls through",
			row:      model.NewRow("_time", "1e30", "_indextime", "4000", "v", "1"),
			expected: 4000,
		},
		{
			name:     "negative time beyond int64 falls through",
			row:      model.NewRow("_time", "-1e30", "v", "1"),
			expected: 1700000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Implicit(), zaptest.NewLogger(t), WithClock(fixedClock(1700000000)))

			samples := e.ExtractRow(tt.row)

			require.Len(t, samples, 1)
			assert.Equal(t, tt.expected, samples[0].Timestamp)
		})
	}
}

func TestExtract_WallClockIsTruncated(t *testing.T) {
	before := time.Now().Unix()
	e := New(Implicit(), zaptest.NewLogger(t))

	samples := e.ExtractRow(model.NewRow("v", "1"))
	after := time.Now().Unix()

	require.Len(t, samples, 1)
	assert.GreaterOrEqual(t, samples[0].Timestamp, before)
	assert.LessOrEqual(t, samples[0].Timestamp, after)
}

func TestExtract_Reader(t *testing.T) {
	run := stats.New()
	e := New(Implicit(), zaptest.NewLogger(t), WithStats(run))

	samples, err := e.Extract(results.FromRows([]model.Row{
		model.NewRow("_time", "10", "a", "1", "b", "2"),
		model.NewRow("_time", "20", "a", "3"),
	}))

	require.NoError(t, err)
	assert.Equal(t, []model.MetricSample{
		{Name: "a", Value: 1, Timestamp: 10},
		{Name: "b", Value: 2, Timestamp: 10},
		{Name: "a", Value: 3, Timestamp: 20},
	}, samples)
	assert.Equal(t, int64(2), run.Count(stats.RowsRead))
}

type failingReader struct{}

func (failingReader) Next() (model.Row, error) {
	return model.Row{}, model.ErrDecode
}

func TestExtract_ReaderError(t *testing.T) {
	e := New(Implicit(), zaptest.NewLogger(t))

	samples, err := e.Extract(failingReader{})

	assert.Nil(t, samples)
	assert.True(t, errors.Is(err, model.ErrDecode))
}
