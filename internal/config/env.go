package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Имена переменных окружения, которые выставляет Splunk
const (
	AlertModeEnv   = "SPLUNK_ARG_1"
	ResultsFileEnv = "SPLUNK_ARG_8"
)

// Env настройки из окружения
type Env struct {
	SplunkHome  string `env:"SPLUNK_HOME"`
	ResultsFile string `env:"SPLUNK_ARG_8"`
	ConfigFile  string `env:"METRICS_CONFIG_FILE"`
	APIKey      string `env:"DD_API_KEY"`
	LogLevel    string `env:"LOGLEVEL" envDefault:"info"`
}

// ParseEnv разбирает окружение в формате os.Environ()
func ParseEnv(environ []string) (Env, error) {
	var e Env
	if err := env.Parse(&e, env.Options{Environment: toMap(environ)}); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// Overlay слой настроек, заданных через окружение
func (e Env) Overlay() Overlay {
	var o Overlay
	if e.APIKey != "" {
		o.APIKey = StringPtr(e.APIKey)
	}
	return o
}

// IsAlertMode true, если команда запущена как действие алерта
func IsAlertMode(environ []string) bool {
	_, ok := toMap(environ)[AlertModeEnv]
	return ok
}

func toMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}
