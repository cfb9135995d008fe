package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
)

// SearchArgs аргументы поисковой команды
type SearchArgs struct {
	Overlay  Overlay
	LogLevel string
}

// ParseSearchArgs разбирает аргументы поисковой команды. В слой попадают только
// явно переданные флаги, позиционные аргументы становятся списком полей-метрик.
// Неизвестные флаги игнорируются.
func ParseSearchArgs(args []string) (SearchArgs, error) {
	flags := pflag.NewFlagSet("search", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.ParseErrorsWhitelist.UnknownFlags = true

	host := flags.String("host", defaultHost, "metrics backend host")
	port := flags.String("port", defaultHTTPPort, "metrics backend port")
	namespace := flags.String("namespace", defaultNamespace, "metrics namespace")
	prefix := flags.String("prefix", "", "prefix for the metrics namespace")
	nameField := flags.String("namefield", "", "field whose value prefixes metric names")
	apiURL := flags.String("api-url", "", "series API url")
	apiKey := flags.String("api-key", "", "series API key")
	apiMethod := flags.String("api-method", defaultAPIMethod, "series API method, POST or PUT")
	gzip := flags.Bool("gzip", false, "gzip series request body")
	noop := flags.Bool("noop", false, "do not send metrics")
	tags := flags.StringSlice("tags", nil, "tags attached to every series")
	transports := flags.StringSlice("transport", nil, "transports to use: line, http")
	logLevel := flags.String("loglevel", "", "logger level")

	if err := flags.Parse(args); err != nil {
		return SearchArgs{}, fmt.Errorf("%w: parse arguments: %w", model.ErrConfig, err)
	}

	var o Overlay
	setIfChanged(flags, "host", &o.Host, *host)
	setIfChanged(flags, "port", &o.Port, *port)
	setIfChanged(flags, "namespace", &o.Namespace, *namespace)
	setIfChanged(flags, "prefix", &o.Prefix, *prefix)
	setIfChanged(flags, "namefield", &o.NameField, *nameField)
	setIfChanged(flags, "api-url", &o.APIURL, *apiURL)
	setIfChanged(flags, "api-key", &o.APIKey, *apiKey)
	setIfChanged(flags, "api-method", &o.APIMethod, *apiMethod)

	if flags.Changed("gzip") {
		o.Gzip = BoolPtr(*gzip)
	}
	if flags.Changed("noop") {
		o.Noop = BoolPtr(*noop)
	}
	if flags.Changed("tags") {
		o.Tags = *tags
	}
	if flags.Changed("transport") {
		o.Transports = *transports
	}

	// позиционные аргументы, похожие на флаги, не считаются полями
	for _, arg := range flags.Args() {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		o.Fields = append(o.Fields, arg)
	}

	return SearchArgs{Overlay: o, LogLevel: *logLevel}, nil
}

func setIfChanged(flags *pflag.FlagSet, name string, dst **string, value string) {
	if flags.Changed(name) {
		*dst = StringPtr(value)
	}
}
