package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tonsettle/internal/application/dto"
	"tonsettle/internal/infrastructure/config"
	"tonsettle/internal/infrastructure/di"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logger.Printf("startup config error code=%s message=%s metadata=%v", cfgErr.Code, cfgErr.Message, cfgErr.Metadata)
		os.Exit(1)
	}
	if cfg.WalletMnemonic == "" {
		logger.Printf("withdraw worker starting without key material; withdrawals will stay queued until TON_WALLET_MNEMONIC is set")
	}

	container, buildErr := di.BuildWithdrawWorker(cfg, logger)
	if buildErr != nil {
		logger.Printf("dependency wiring error: %v", buildErr)
		os.Exit(1)
	}
	defer func() {
		if container.Database == nil {
			return
		}
		if err := container.Database.Close(); err != nil {
			logger.Printf("database close warning error=%v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("withdraw worker persistence initialization starting database_target=%s", cfg.DatabaseTarget)
	persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.DBReadinessTimeout,
		ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
	})
	if persistenceErr != nil {
		logger.Printf(
			"withdraw worker persistence initialization failed code=%s message=%s metadata=%v",
			persistenceErr.Code,
			persistenceErr.Message,
			persistenceErr.Details,
		)
		os.Exit(1)
	}
	logger.Printf("withdraw worker persistence initialization completed database_target=%s", cfg.DatabaseTarget)

	go container.WithdrawWorker.Start(ctx)
	go container.RecoveryWorker.Start(ctx)

	<-ctx.Done()
	logger.Printf("withdraw worker stopped")
}
