package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goaltracker/internal/cli"
	"goaltracker/internal/logging"
	"goaltracker/internal/session"
)

func main() {
	cfg := cli.Config{}
	flag.StringVar(&cfg.ServerURL, "a", "http://localhost:3001", "goal tracker server address")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "request timeout")
	flag.DurationVar(&cfg.Debounce, "debounce", session.DefaultDebounce, "quiet time before changes are synced")
	logLevel := flag.String("log-level", "warn", "log level for background errors")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, logging.NewJSON(os.Stderr, *logLevel))
	app.Run(ctx)
}
