package main

import (
	"context"
	"os"

	"hygieat/internal/app"
	"hygieat/internal/cli"
	"hygieat/internal/config"
	"hygieat/internal/logger"
	"hygieat/internal/vendor"
)

var version = "dev"

func main() {
	deps := cli.Dependencies{
		Open:    openFromEnv,
		Version: version,
	}

	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// openFromEnv reads the same environment as the api server. Logs go to
// stderr so stdout stays machine readable.
func openFromEnv(ctx context.Context) (*vendor.Service, func(context.Context) error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	a, err := app.Build(ctx, cfg, logger.NewWithWriter(os.Stderr, cfg.LogLevel))
	if err != nil {
		return nil, nil, err
	}
	return a.Vendors, a.Close, nil
}
