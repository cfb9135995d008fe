package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/config"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/intersplunk"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/logger"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/model"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/pipeline"
	"github.com/kazakovdmitriy/splunk-metrics-output/internal/results"
)

// Коды завершения
const (
	ExitOK = 0
	// ExitReportFailed не удалось записать даже сообщение об ошибке
	ExitReportFailed = 1
)

// Options окружение процесса
type Options struct {
	Args    []string
	Environ []string
	Stdin   io.Reader
	Stdout  io.Writer
	// Stderr куда писать логи; nil означает stderr процесса
	Stderr io.Writer
	// Pipeline дополнительные настройки обработки
	Pipeline []pipeline.Option
}

// Command один из двух способов вызова
type Command interface {
	Run(ctx context.Context) ([]model.Row, error)
}

// AlertCommand действие сохранённого поиска: результаты в сжатом файле из SPLUNK_ARG_8
type AlertCommand struct {
	Env       config.Env
	Processor *pipeline.Processor
}

// Run читает файл результатов и обрабатывает его
func (c AlertCommand) Run(ctx context.Context) ([]model.Row, error) {
	fileLayer, err := config.LoadFile(config.FilePath(c.Env))
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(config.ModeAlert, fileLayer, c.Env.Overlay())
	if err != nil {
		return nil, err
	}

	rows, closer, err := results.OpenFile(c.Env.ResultsFile)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return c.Processor.Process(ctx, cfg, rows)
}

// SearchCommand поисковая команда: результаты приходят в stdin
type SearchCommand struct {
	Env       config.Env
	Args      config.SearchArgs
	Stdin     io.Reader
	Processor *pipeline.Processor
}

// Run читает результаты из stdin и обрабатывает их
func (c SearchCommand) Run(ctx context.Context) ([]model.Row, error) {
	fileLayer, err := config.LoadFile(config.FilePath(c.Env))
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(config.ModeSearch, fileLayer, c.Env.Overlay(), c.Args.Overlay)
	if err != nil {
		return nil, err
	}

	in, err := intersplunk.ReadResults(c.Stdin)
	if err != nil {
		return nil, err
	}

	return c.Processor.Process(ctx, cfg, results.FromRows(in.Rows))
}

// Run выбирает способ вызова, выполняет его и пишет результат в stdout.
// Любая ошибка, включая панику, сообщается строкой ERROR.
func Run(ctx context.Context, opts Options) int {
	log := zap.NewNop()

	rows, err := func() (rows []model.Row, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("unexpected failure: %v", r)
			}
		}()

		var cmd Command
		cmd, log, err = newCommand(opts)
		if err != nil {
			return nil, err
		}
		return cmd.Run(ctx)
	}()
	defer log.Sync()

	if err != nil {
		log.Error("command failed", zap.Error(err))
		if werr := intersplunk.WriteError(opts.Stdout, err); werr != nil {
			log.Error("failed to report error", zap.Error(werr))
			return ExitReportFailed
		}
		return ExitOK
	}

	if err := intersplunk.WriteResults(opts.Stdout, rows); err != nil {
		log.Error("failed to write results", zap.Error(err))
		return ExitReportFailed
	}
	return ExitOK
}

func newCommand(opts Options) (Command, *zap.Logger, error) {
	env, err := config.ParseEnv(opts.Environ)
	if err != nil {
		return nil, zap.NewNop(), fmt.Errorf("%w: %w", model.ErrConfig, err)
	}

	if config.IsAlertMode(opts.Environ) {
		log, err := newLogger(env.LogLevel, opts.Stderr)
		if err != nil {
			return nil, zap.NewNop(), err
		}
		log = log.With(zap.String("command", string(config.ModeAlert)))
		return AlertCommand{
			Env:       env,
			Processor: pipeline.New(log, opts.Pipeline...),
		}, log, nil
	}

	args, err := config.ParseSearchArgs(opts.Args)
	if err != nil {
		return nil, zap.NewNop(), err
	}
	level := env.LogLevel
	if args.LogLevel != "" {
		level = args.LogLevel
	}
	log, err := newLogger(level, opts.Stderr)
	if err != nil {
		return nil, zap.NewNop(), err
	}
	log = log.With(zap.String("command", string(config.ModeSearch)))

	return SearchCommand{
		Env:       env,
		Args:      args,
		Stdin:     opts.Stdin,
		Processor: pipeline.New(log, opts.Pipeline...),
	}, log, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if w == nil {
		log, err = logger.Initialize(level)
	} else {
		log, err = logger.NewWithWriter(level, w)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfig, err)
	}
	return log, nil
}
