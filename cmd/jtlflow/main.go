// Command jtlflow runs partner flat-file flows against the order API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)
	code := cli.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
