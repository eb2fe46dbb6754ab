package di

import (
	"database/sql"
	"fmt"
	"log"

	"tonsettle/internal/adapters/inbound/http/controllers"
	httpRouter "tonsettle/internal/adapters/inbound/http/router"
	"tonsettle/internal/adapters/outbound/docs"
	postgresqlbalance "tonsettle/internal/adapters/outbound/persistence/postgresql/balance"
	postgresqlbootstrap "tonsettle/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlcoinflip "tonsettle/internal/adapters/outbound/persistence/postgresql/coinflip"
	postgresqldeposit "tonsettle/internal/adapters/outbound/persistence/postgresql/deposit"
	postgresqlshared "tonsettle/internal/adapters/outbound/persistence/postgresql/shared"
	postgresqlwithdrawal "tonsettle/internal/adapters/outbound/persistence/postgresql/withdrawal"
	"tonsettle/internal/adapters/outbound/toncenter"
	hotwallet "tonsettle/internal/adapters/outbound/wallet/hot"
	portsin "tonsettle/internal/application/ports/in"
	"tonsettle/internal/application/use_cases"
	valueobjects "tonsettle/internal/domain/value_objects"
	"tonsettle/internal/infrastructure/config"
	"tonsettle/internal/infrastructure/httpserver"
	"tonsettle/internal/infrastructure/withdrawworker"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	WithdrawWorker               *withdrawworker.Worker
	RecoveryWorker               *withdrawworker.RecoveryWorker
}

// Options scope which moving parts a binary runs. The API server leaves the
// payout workers off; the worker binary leaves the HTTP server idle.
type Options struct {
	WithdrawWorkerEnabled bool
	RecoveryWorkerEnabled bool
}

// BuildServer wires the API runtime. Payout workers stay off; a separate
// binary owns the hot wallet key.
func BuildServer(cfg config.Config, logger *log.Logger) (Container, error) {
	return Build(cfg, Options{}, logger)
}

// BuildWithdrawWorker wires the payout runtime with both the send loop and
// the stale-claim recovery loop.
func BuildWithdrawWorker(cfg config.Config, logger *log.Logger) (Container, error) {
	return Build(cfg, Options{WithdrawWorkerEnabled: true, RecoveryWorkerEnabled: true}, logger)
}

func Build(cfg config.Config, opts Options, logger *log.Logger) (Container, error) {
	depositAddressRaw, normErr := valueobjects.NormalizeTONAddress(cfg.DepositAddress)
	if normErr != nil {
		return Container{}, fmt.Errorf("deposit address invalid: %s", normErr.Message)
	}

	usdtJettonMaster := ""
	if cfg.USDTJettonMaster != "" {
		usdtJettonMaster, normErr = valueobjects.NormalizeTONAddress(cfg.USDTJettonMaster)
		if normErr != nil {
			return Container{}, fmt.Errorf("usdt jetton master invalid: %s", normErr.Message)
		}
	}

	walletAddressRaw := ""
	if cfg.WalletAddress != "" {
		walletAddressRaw, normErr = valueobjects.NormalizeTONAddress(cfg.WalletAddress)
		if normErr != nil {
			return Container{}, fmt.Errorf("wallet address invalid: %s", normErr.Message)
		}
	}

	payoutWallet, walletErr := hotwallet.NewGateway(cfg.WalletMnemonic, walletAddressRaw)
	if walletErr != nil {
		return Container{}, fmt.Errorf("payout wallet setup failed: %s", walletErr.Message)
	}

	healthUseCase := use_cases.NewGetHealthUseCase()
	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)
	persistenceGateway := postgresqlbootstrap.NewGateway(cfg.DatabaseURL, cfg.MigrationsPath, logger)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)

	balanceRepository := postgresqlbalance.NewRepository(databasePool)
	depositRepository := postgresqldeposit.NewRepository(databasePool)
	withdrawalRepository := postgresqlwithdrawal.NewRepository(databasePool)
	coinflipRepository := postgresqlcoinflip.NewRepository(databasePool)

	chainGateway := toncenter.NewGateway(toncenter.Config{
		BaseURL: cfg.ChainEndpointURL,
		APIKey:  cfg.ChainAPIKey,
	})

	clock := use_cases.NewSystemClock()

	getBalanceUseCase := use_cases.NewGetBalanceUseCase(balanceRepository)
	claimDepositUseCase := use_cases.NewClaimDepositUseCase(depositRepository, clock)
	verifyDepositUseCase := use_cases.NewVerifyDepositUseCase(
		depositRepository,
		chainGateway,
		use_cases.VerifyDepositConfig{
			DepositAddressRaw: depositAddressRaw,
			USDTJettonMaster:  usdtJettonMaster,
			LookbackLimit:     cfg.ChainLookbackLimit,
		},
		clock,
	)
	rejectDepositUseCase := use_cases.NewRejectDepositUseCase(depositRepository, clock)
	getDepositUseCase := use_cases.NewGetDepositUseCase(depositRepository)
	listDepositsUseCase := use_cases.NewListDepositsUseCase(depositRepository)
	manualDepositUseCase := use_cases.NewRecordManualDepositUseCase(depositRepository, clock)

	createWithdrawalUseCase := use_cases.NewCreateWithdrawalUseCase(
		withdrawalRepository,
		cfg.WithdrawMaxAttempts,
		clock,
	)
	getWithdrawalUseCase := use_cases.NewGetWithdrawalUseCase(withdrawalRepository)
	listWithdrawalsUseCase := use_cases.NewListWithdrawalsUseCase(withdrawalRepository)
	processWithdrawalsUseCase := use_cases.NewProcessWithdrawalsUseCase(
		withdrawalRepository,
		chainGateway,
		chainGateway,
		payoutWallet,
	)
	recoverStuckUseCase := use_cases.NewRecoverStuckWithdrawalsUseCase(withdrawalRepository)

	playCoinflipUseCase := use_cases.NewPlayCoinflipUseCase(coinflipRepository, nil, clock)

	withdrawWorker := withdrawworker.NewWorker(
		opts.WithdrawWorkerEnabled,
		cfg.WithdrawInterval,
		cfg.WithdrawBatchSize,
		cfg.TransferValidFor,
		processWithdrawalsUseCase,
		logger,
	)
	recoveryWorker := withdrawworker.NewRecoveryWorker(
		opts.RecoveryWorkerEnabled,
		cfg.RecoveryInterval,
		cfg.StuckCutoff,
		recoverStuckUseCase,
		logger,
	)

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	balancesController := controllers.NewBalancesController(getBalanceUseCase, logger)
	depositsController := controllers.NewDepositsController(
		claimDepositUseCase,
		verifyDepositUseCase,
		rejectDepositUseCase,
		getDepositUseCase,
		listDepositsUseCase,
		manualDepositUseCase,
		logger,
	)
	withdrawalsController := controllers.NewWithdrawalsController(
		createWithdrawalUseCase,
		getWithdrawalUseCase,
		listWithdrawalsUseCase,
		logger,
	)
	coinflipController := controllers.NewCoinflipController(playCoinflipUseCase, logger)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:      healthController,
		SwaggerController:     swaggerController,
		BalancesController:    balancesController,
		DepositsController:    depositsController,
		WithdrawalsController: withdrawalsController,
		CoinflipController:    coinflipController,
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return Container{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		WithdrawWorker:               withdrawWorker,
		RecoveryWorker:               recoveryWorker,
	}, nil
}
