package extractor

import "strings"

// ignoredFields числовые служебные поля Splunk, которые никогда не считаются метриками
var ignoredFields = map[string]struct{}{
	"linecount":    {},
	"timeendpos":   {},
	"timestartpos": {},
}

// Policy правило выбора полей-метрик. Нулевое значение означает неявное правило.
type Policy struct {
	selected map[string]struct{}
}

// Implicit правило по умолчанию: пропускаются поля, начинающиеся с "_" или "date_",
// и служебные поля linecount, timeendpos, timestartpos.
func Implicit() Policy {
	return Policy{}
}

// Explicit явный набор полей. Пустой набор равносилен неявному правилу.
func Explicit(fields ...string) Policy {
	if len(fields) == 0 {
		return Implicit()
	}
	selected := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		selected[f] = struct{}{}
	}
	return Policy{selected: selected}
}

// IsExplicit true, если задан явный набор полей
func (p Policy) IsExplicit() bool {
	return len(p.selected) > 0
}

// Selects проверяет, является ли поле метрикой
func (p Policy) Selects(key string) bool {
	if p.IsExplicit() {
		_, ok := p.selected[key]
		return ok
	}

	if key == "" || strings.HasPrefix(key, "_") || strings.HasPrefix(key, "date_") {
		return false
	}
	_, ignored := ignoredFields[key]
	return !ignored
}
