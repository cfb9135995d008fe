package model

// Field одно поле строки результата поиска
type Field struct {
	Key   string
	Value string
}

// Row упорядоченный набор полей одной записи результата поиска
type Row struct {
	Fields []Field
}

// NewRow собирает строку из пар ключ, значение. Число аргументов должно быть чётным,
// лишний последний ключ отбрасывается.
func NewRow(kvs ...string) Row {
	fields := make([]Field, 0, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		fields = append(fields, Field{Key: kvs[i], Value: kvs[i+1]})
	}
	return Row{Fields: fields}
}

// Get возвращает значение поля и признак его наличия
func (r Row) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Keys возвращает имена полей в исходном порядке
func (r Row) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Len количество полей
func (r Row) Len() int {
	return len(r.Fields)
}
