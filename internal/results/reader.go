package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/service/compressor"
)

// RowReader однопроходная ленивая последовательность строк.
// Next возвращает io.EOF, когда строки закончились.
type RowReader interface {
	Next() (model.Row, error)
}

// emptyReader последовательность без строк
type emptyReader struct{}

func (emptyReader) Next() (model.Row, error) {
	return model.Row{}, io.EOF
}

// Empty возвращает пустую последовательность
func Empty() RowReader {
	return emptyReader{}
}

// sliceReader отдаёт уже прочитанные строки
type sliceReader struct {
	rows []model.Row
	pos  int
}

// FromRows оборачивает готовый набор строк
func FromRows(rows []model.Row) RowReader {
	return &sliceReader{rows: rows}
}

func (s *sliceReader) Next() (model.Row, error) {
	if s.pos >= len(s.rows) {
		return model.Row{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// CSVReader читает строки из CSV с заголовком
type CSVReader struct {
	csv    *csv.Reader
	header []string
	closer io.Closer
}

// NewCSVReader создаёт reader поверх потока. Первая запись считается заголовком.
// Пустой поток даёт пустую последовательность.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read header: %w", model.ErrDecode, err)
	}

	return &CSVReader{csv: cr, header: header}, nil
}

// Header имена колонок
func (c *CSVReader) Header() []string {
	return c.header
}

// Next читает следующую запись. Недостающие колонки заполняются пустыми значениями,
// лишние значения отбрасываются.
func (c *CSVReader) Next() (model.Row, error) {
	if c.header == nil {
		return model.Row{}, io.EOF
	}

	record, err := c.csv.Read()
	if errors.Is(err, io.EOF) {
		return model.Row{}, io.EOF
	}
	if err != nil {
		return model.Row{}, fmt.Errorf("%w: read record: %w", model.ErrDecode, err)
	}

	fields := make([]model.Field, len(c.header))
	for i, key := range c.header {
		var value string
		if i < len(record) {
			value = record[i]
		}
		fields[i] = model.Field{Key: key, Value: value}
	}
	return model.Row{Fields: fields}, nil
}

// Close закрывает исходный файл, если он был открыт через OpenFile
func (c *CSVReader) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// OpenFile открывает сжатый gzip CSV файл с результатами.
// Пустой или несуществующий путь даёт пустую последовательность без ошибки.
func OpenFile(path string) (RowReader, io.Closer, error) {
	if path == "" {
		return Empty(), noopCloser{}, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), noopCloser{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %q: %w", model.ErrDecode, path, err)
	}

	zr, err := compressor.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: decompress %q: %w", model.ErrDecode, path, err)
	}

	reader, err := NewCSVReader(zr)
	if err != nil {
		zr.Close()
		f.Close()
		return nil, nil, err
	}
	reader.closer = multiCloser{zr, f}

	return reader, reader, nil
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var errs []error
	for _, c := range m {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadAll вычитывает последовательность целиком
func ReadAll(r RowReader) ([]model.Row, error) {
	var rows []model.Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
