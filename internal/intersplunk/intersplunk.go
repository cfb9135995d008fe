// Package intersplunk обмен результатами с поисковым процессом через stdin/stdout
package intersplunk

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/results"
)

// ErrorColumn колонка, через которую сообщается ошибка команды
const ErrorColumn = "ERROR"

// Results входные данные поисковой команды
type Results struct {
	// Settings пары из блока заголовка "key:value"
	Settings map[string]string
	Rows     []model.Row
}

// ReadResults читает результаты из потока. Перед CSV может идти блок заголовка
// из строк "key:value", закрытый пустой строкой.
func ReadResults(r io.Reader) (Results, error) {
	br := bufio.NewReader(r)

	settings, err := readHeader(br)
	if err != nil {
		return Results{}, err
	}

	reader, err := results.NewCSVReader(br)
	if err != nil {
		return Results{}, err
	}
	rows, err := results.ReadAll(reader)
	if err != nil {
		return Results{}, err
	}

	return Results{Settings: settings, Rows: rows}, nil
}

func readHeader(br *bufio.Reader) (map[string]string, error) {
	settings := make(map[string]string)

	buf, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read header: %w", model.ErrDecode, err)
	}
	first, _, _ := strings.Cut(string(buf), "\n")
	if !isHeaderLine(strings.TrimRight(first, "\r")) {
		return settings, nil
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read header: %w", model.ErrDecode, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return settings, nil
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			settings[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		if errors.Is(err, io.EOF) {
			return settings, nil
		}
	}
}

// isHeaderLine строка заголовка выглядит как "key:value", где key без запятых и кавычек
func isHeaderLine(line string) bool {
	key, _, ok := strings.Cut(line, ":")
	if !ok || key == "" {
		return false
	}
	return !strings.ContainsAny(key, ",\" ")
}

// WriteResults пишет строки как CSV. Заголовок собирается из ключей всех строк
// в порядке первого появления. Без строк ничего не пишется.
func WriteResults(w io.Writer, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	header := columns(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, key := range header {
			record[i], _ = row.Get(key)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return nil
}

// WriteError сообщает об ошибке одной строкой с колонкой ERROR
func WriteError(w io.Writer, err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return WriteResults(w, []model.Row{model.NewRow(ErrorColumn, msg)})
}

func columns(rows []model.Row) []string {
	seen := make(map[string]struct{})
	var header []string
	for _, row := range rows {
		for _, key := range row.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			header = append(header, key)
		}
	}
	return header
}
