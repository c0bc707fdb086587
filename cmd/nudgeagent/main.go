// Command nudgeagent runs the inactivity scanner without the web server.
// It scans on the configured schedule until interrupted; with --once it
// runs a single scan and exits.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/bootstrap"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(logger); err != nil {
		logger.Error("nudgeagent exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if coreCfg.Env == "dev" {
		if dev, derr := zap.NewDevelopment(); derr == nil {
			logger = dev
		}
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	deps := bootstrap.ConnectScannerDB(ctx, coreCfg, appCfg, logger)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cancel()
		_ = bootstrap.Shutdown(sctx, coreCfg, appCfg, deps, logger)
	}()

	ai := bootstrap.NewAIClient(appCfg, logger)
	scanner := bootstrap.NewScanner(appCfg, deps, ai, logger)
	runner, err := bootstrap.NewScanRunner(appCfg, scanner, logger)
	if err != nil {
		return err
	}

	if appCfg.NudgeOnce {
		logger.Info("running a single inactivity scan")
		if err := runner.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	logger.Info("nudge agent started; press Ctrl+C to stop")
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("nudge agent stopped")
	return nil
}
