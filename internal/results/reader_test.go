package results

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzip(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "results.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	return path
}

func TestOpenFile(t *testing.T) {
	path := writeGzip(t, "_time,host,cpu\n1000,web1,42.5\n1001,web2,0\n")

	reader, closer, err := OpenFile(path)
	require.NoError(t, err)
	defer closer.Close()

	rows, err := ReadAll(reader)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.NewRow("_time", "1000", "host", "web1", "cpu", "42.5"), rows[0])
	assert.Equal(t, []string{"_time", "host", "cpu"}, rows[1].Keys())

	v, ok := rows[1].Get("cpu")
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestOpenFile_EmptyOrMissing(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.csv.gz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, closer, err := OpenFile(tt.path)
			require.NoError(t, err)
			assert.NoError(t, closer.Close())

			rows, err := ReadAll(reader)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestOpenFile_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0x08, 0x00}, 0o600))

	_, _, err := OpenFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDecode)
}

func TestOpenFile_MalformedCSV(t *testing.T) {
	path := writeGzip(t, "a,b\n\"unterminated,2\n")

	reader, closer, err := OpenFile(path)
	require.NoError(t, err)
	defer closer.Close()

	_, err = ReadAll(reader)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDecode)
}

func TestCSVReader_ShortAndLongRecords(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
	require.NoError(t, err)

	rows, err := ReadAll(reader)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.NewRow("a", "1", "b", "", "c", ""), rows[0])
	assert.Equal(t, model.NewRow("a", "1", "b", "2", "c", "3"), rows[1])
}

func TestFromRows(t *testing.T) {
	input := []model.Row{
		model.NewRow("x", "1"),
		model.NewRow("y", "2"),
	}

	rows, err := ReadAll(FromRows(input))
	require.NoError(t, err)
	assert.Equal(t, input, rows)
}

func TestEmpty(t *testing.T) {
	rows, err := ReadAll(Empty())
	require.NoError(t, err)
	assert.Nil(t, rows)
}
