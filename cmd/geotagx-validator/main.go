// geotagx-validator - GeoTag-X project configuration validator
// Source: https://github.com/geotagx/geotagx-validator

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/geotagx/geotagx-validator/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	os.Exit(cli.ExitCode(err))
}
