package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
)

// Mode способ вызова команды
type Mode string

const (
	// ModeAlert запуск как действие сохранённого поиска (alert action)
	ModeAlert Mode = "alert"
	// ModeSearch запуск как поисковая команда
	ModeSearch Mode = "search"
)

// Транспорты
const (
	TransportLine = "line"
	TransportHTTP = "http"
)

const (
	defaultHost       = "localhost"
	defaultLinePort   = "2003"
	defaultHTTPPort   = "17123"
	defaultNamespace  = "splunk.search"
	defaultAPIPath    = "/api/v1/series"
	defaultAPIMethod  = "POST"
	DefaultAPIURL     = "http://localhost:17123/api/v1/series"
	DefaultConfigPath = "etc/apps/splunk_datadog/local/datadog.conf"
)

// DispatchConfig итоговая конфигурация одного запуска. Не изменяется после Resolve.
type DispatchConfig struct {
	Mode           Mode
	LineHost       string
	LinePort       string
	APIURL         string
	APIKey         string
	APIMethod      string
	Gzip           bool
	Namespace      string
	Prefix         string
	NameField      string
	SelectedFields []string
	Tags           []string
	Transports     []string
	Noop           bool
}

// LineEnabled включён ли построчный транспорт
func (c DispatchConfig) LineEnabled() bool {
	return c.hasTransport(TransportLine)
}

// HTTPEnabled включён ли HTTP транспорт
func (c DispatchConfig) HTTPEnabled() bool {
	return c.hasTransport(TransportHTTP)
}

func (c DispatchConfig) hasTransport(name string) bool {
	for _, t := range c.Transports {
		if t == name {
			return true
		}
	}
	return false
}

// Overlay слой настроек. nil означает, что значение в слое не задано.
type Overlay struct {
	Host       *string
	Port       *string
	Namespace  *string
	Prefix     *string
	NameField  *string
	APIURL     *string
	APIKey     *string
	APIMethod  *string
	Gzip       *bool
	Noop       *bool
	Fields     []string
	Tags       []string
	Transports []string
}

// Merge переносит заданные в other значения поверх текущих
func (o *Overlay) Merge(other Overlay) {
	mergeString(&o.Host, other.Host)
	mergeString(&o.Port, other.Port)
	mergeString(&o.Namespace, other.Namespace)
	mergeString(&o.Prefix, other.Prefix)
	mergeString(&o.NameField, other.NameField)
	mergeString(&o.APIURL, other.APIURL)
	mergeString(&o.APIKey, other.APIKey)
	mergeString(&o.APIMethod, other.APIMethod)
	if other.Gzip != nil {
		v := *other.Gzip
		o.Gzip = &v
	}
	if other.Noop != nil {
		v := *other.Noop
		o.Noop = &v
	}
	if other.Fields != nil {
		o.Fields = append([]string(nil), other.Fields...)
	}
	if other.Tags != nil {
		o.Tags = append([]string(nil), other.Tags...)
	}
	if other.Transports != nil {
		o.Transports = append([]string(nil), other.Transports...)
	}
}

func mergeString(dst **string, src *string) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

// Defaults значения по умолчанию для режима вызова.
// Действие алерта по умолчанию пишет в сокет на порт 2003,
// поисковая команда отправляет серии по HTTP на порт 17123.
func Defaults(mode Mode) Overlay {
	port := defaultHTTPPort
	transport := TransportHTTP
	if mode == ModeAlert {
		port = defaultLinePort
		transport = TransportLine
	}

	return Overlay{
		Host:       StringPtr(defaultHost),
		Port:       StringPtr(port),
		Namespace:  StringPtr(defaultNamespace),
		Prefix:     StringPtr(""),
		NameField:  StringPtr(""),
		APIKey:     StringPtr(""),
		APIMethod:  StringPtr(defaultAPIMethod),
		Gzip:       BoolPtr(false),
		Noop:       BoolPtr(false),
		Tags:       []string{},
		Transports: []string{transport},
	}
}

// Resolve накладывает слои по порядку (каждый следующий важнее) на значения
// по умолчанию и проверяет результат.
func Resolve(mode Mode, layers ...Overlay) (DispatchConfig, error) {
	merged := Defaults(mode)
	for _, layer := range layers {
		merged.Merge(layer)
	}

	cfg := DispatchConfig{
		Mode:           mode,
		LineHost:       strings.TrimSpace(deref(merged.Host)),
		LinePort:       strings.TrimSpace(deref(merged.Port)),
		APIURL:         strings.TrimSpace(deref(merged.APIURL)),
		APIKey:         strings.TrimSpace(deref(merged.APIKey)),
		APIMethod:      strings.ToUpper(strings.TrimSpace(deref(merged.APIMethod))),
		Gzip:           merged.Gzip != nil && *merged.Gzip,
		Namespace:      deref(merged.Namespace),
		Prefix:         deref(merged.Prefix),
		NameField:      deref(merged.NameField),
		SelectedFields: cleanList(merged.Fields),
		Tags:           cleanList(merged.Tags),
		Transports:     normalizeTransports(merged.Transports),
		Noop:           merged.Noop != nil && *merged.Noop,
	}

	if cfg.APIURL == "" {
		cfg.APIURL = deriveAPIURL(cfg)
	}

	if err := cfg.validate(); err != nil {
		return DispatchConfig{}, err
	}
	return cfg, nil
}

// deriveAPIURL адрес API из host и port. Если одновременно включён построчный
// транспорт, host:port принадлежат ему и используется адрес по умолчанию.
func deriveAPIURL(cfg DispatchConfig) string {
	if cfg.LineEnabled() || cfg.LineHost == "" || cfg.LinePort == "" {
		return DefaultAPIURL
	}
	return "http://" + cfg.LineHost + ":" + cfg.LinePort + defaultAPIPath
}

func (c DispatchConfig) validate() error {
	if len(c.Transports) == 0 {
		return fmt.Errorf("%w: no transport configured", model.ErrConfig)
	}
	for _, t := range c.Transports {
		if t != TransportLine && t != TransportHTTP {
			return fmt.Errorf("%w: unknown transport %q", model.ErrConfig, t)
		}
	}

	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace cannot be empty", model.ErrConfig)
	}

	if c.LineEnabled() {
		if c.LineHost == "" {
			return fmt.Errorf("%w: host cannot be empty", model.ErrConfig)
		}
		port, err := strconv.Atoi(c.LinePort)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%w: invalid port %q", model.ErrConfig, c.LinePort)
		}
	}

	if c.HTTPEnabled() {
		switch c.APIMethod {
		case "POST", "PUT":
		default:
			return fmt.Errorf("%w: api_method must be POST or PUT, got %q", model.ErrConfig, c.APIMethod)
		}
		// без отправки ключ не нужен: режим noop работает и без него
		if c.APIKey == "" && !c.Noop {
			return fmt.Errorf("%w: api_key is required for the http transport", model.ErrConfig)
		}
	}

	return nil
}

func normalizeTransports(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range cleanList(values) {
		v = strings.ToLower(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// cleanList убирает пробелы и пустые элементы, элементы через запятую разбиваются
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr возвращает указатель на копию строки
func StringPtr(s string) *string {
	return &s
}

// BoolPtr возвращает указатель на копию значения
func BoolPtr(b bool) *bool {
	return &b
}
