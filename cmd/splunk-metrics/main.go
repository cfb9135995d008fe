package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kazakovdmitriy/splunk-metrics-output/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := app.Run(ctx, app.Options{
		Args:    os.Args[1:],
		Environ: os.Environ(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	})

	stop()
	os.Exit(code)
}
