package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"seriesbot/internal/app"
	"seriesbot/pkg/logx"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file (YAML or JSON)")
	flag.Parse()

	// The config-backed logger does not exist until app.New succeeds.
	boot := logx.NewConsole("info")

	a, err := app.New(*configPath)
	if err != nil {
		boot.Error("startup failed", logx.Err(err), logx.String("config", *configPath))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	if err := a.Run(ctx); err != nil {
		a.Logger().Error("run failed", logx.Err(err))
		os.Exit(1)
	}
}
