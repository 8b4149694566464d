package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"basic-calculator/internal/config"
	"basic-calculator/internal/engine"
	"basic-calculator/internal/observability"
	"basic-calculator/internal/terminal"
)

func main() {
	debug := flag.Bool("debug", false, "Log every key to stderr")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *debug {
		if err := observability.InitLogger(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger = observability.Logger
		defer observability.SyncLogger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Type keys (0-9 . + - * / = C), e.g. 12+3=. q quits.")

	e := engine.New(engine.WithMaxDisplayLength(cfg.MaxDisplayLength))
	if err := terminal.New(os.Stdout, e, logger).Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
