package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swaparb/internal/app/realflow"
	"swaparb/internal/config"
	"swaparb/internal/shared/logging"
	"swaparb/internal/transport/cli"
	"swaparb/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "", "путь к YAML-конфигу (по умолчанию SWAPARB_CONFIG)")
	interactive := flag.Bool("i", false, "выбрать пары в терминале")
	timeout := flag.Duration("timeout", 30*time.Second, "таймаут одного скана")
	flag.Parse()

	if err := run(*cfgPath, *interactive, *timeout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Ошибка выполнения: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, interactive bool, timeout time.Duration) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if interactive {
		cfg.Pairs = cli.AskPairs(os.Stdin, os.Stdout, cfg.Pairs)
	}

	svc, err := realflow.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return usecase.Report(ctx, svc, cli.NewCLIPresenter(os.Stdout))
}
