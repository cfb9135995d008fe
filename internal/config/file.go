package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
)

// FileSection секция файла настроек, в которой лежат все ключи
const FileSection = "datadog_config"

// fileConfig TOML вариант файла настроек
type fileConfig struct {
	Section fileSection `toml:"datadog_config"`
}

type fileSection struct {
	Host       *string  `toml:"host"`
	Port       any      `toml:"port"`
	Namespace  *string  `toml:"namespace"`
	Prefix     *string  `toml:"prefix"`
	NameField  *string  `toml:"namefield"`
	APIURL     *string  `toml:"api_url"`
	APIKey     *string  `toml:"api_key"`
	APIMethod  *string  `toml:"api_method"`
	Gzip       *bool    `toml:"gzip"`
	Fields     []string `toml:"fields"`
	Tags       []string `toml:"tags"`
	Transports []string `toml:"transports"`
}

// FilePath путь к файлу настроек: METRICS_CONFIG_FILE, иначе файл приложения
// внутри SPLUNK_HOME. Пустая строка, если ни то ни другое не задано.
func FilePath(e Env) string {
	if e.ConfigFile != "" {
		return e.ConfigFile
	}
	if e.SplunkHome == "" {
		return ""
	}
	return filepath.Join(e.SplunkHome, filepath.FromSlash(DefaultConfigPath))
}

// LoadFile читает слой настроек из файла. Файл с расширением .toml разбирается
// как TOML, любой другой как INI (формат datadog.conf).
// Пустой путь или отсутствующий файл дают пустой слой без ошибки.
func LoadFile(path string) (Overlay, error) {
	if path == "" {
		return Overlay{}, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Overlay{}, nil
	}
	if err != nil {
		return Overlay{}, fmt.Errorf("%w: read config %q: %w", model.ErrConfig, path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(raw)
	}
	return ParseFile(raw)
}

// ParseFile разбирает INI файл настроек. Значения без кавычек, списки через запятую.
// Файл без секции [datadog_config] даёт пустой слой.
func ParseFile(raw []byte) (Overlay, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
	}, raw)
	if err != nil {
		return Overlay{}, fmt.Errorf("%w: decode INI: %w", model.ErrConfig, err)
	}

	sec, err := f.GetSection(FileSection)
	if err != nil {
		return Overlay{}, nil
	}

	var o Overlay
	o.Host = iniString(sec, "host")
	o.Port = iniString(sec, "port")
	o.Namespace = iniString(sec, "namespace")
	o.Prefix = iniString(sec, "prefix")
	o.NameField = iniString(sec, "namefield")
	o.APIURL = iniString(sec, "api_url")
	o.APIKey = iniString(sec, "api_key")
	o.APIMethod = iniString(sec, "api_method")
	o.Fields = iniList(sec, "fields")
	o.Tags = iniList(sec, "tags")
	o.Transports = iniList(sec, "transports")

	if sec.HasKey("gzip") {
		gzip, err := sec.Key("gzip").Bool()
		if err != nil {
			return Overlay{}, fmt.Errorf("%w: gzip: %w", model.ErrConfig, err)
		}
		o.Gzip = BoolPtr(gzip)
	}

	return o, nil
}

func iniString(sec *ini.Section, key string) *string {
	if !sec.HasKey(key) {
		return nil
	}
	return StringPtr(sec.Key(key).String())
}

// iniList элементы разделяются при разрешении конфигурации
func iniList(sec *ini.Section, key string) []string {
	if !sec.HasKey(key) {
		return nil
	}
	return []string{sec.Key(key).String()}
}

// ParseTOML разбирает TOML вариант файла настроек
func ParseTOML(raw []byte) (Overlay, error) {
	var cfg fileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Overlay{}, fmt.Errorf("%w: decode TOML: %w", model.ErrConfig, err)
	}

	port, err := portString(cfg.Section.Port)
	if err != nil {
		return Overlay{}, err
	}

	s := cfg.Section
	return Overlay{
		Host:       s.Host,
		Port:       port,
		Namespace:  s.Namespace,
		Prefix:     s.Prefix,
		NameField:  s.NameField,
		APIURL:     s.APIURL,
		APIKey:     s.APIKey,
		APIMethod:  s.APIMethod,
		Gzip:       s.Gzip,
		Fields:     s.Fields,
		Tags:       s.Tags,
		Transports: s.Transports,
	}, nil
}

// portString порт допускается и строкой, и числом
func portString(v any) (*string, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case string:
		return StringPtr(p), nil
	case int64:
		return StringPtr(strconv.FormatInt(p, 10)), nil
	default:
		return nil, fmt.Errorf("%w: port must be a string or an integer, got %T", model.ErrConfig, v)
	}
}
