package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "db/migrations"
	defaultChainEndpointURL         = "https://toncenter.com"
	defaultChainLookbackLimit       = 50
	defaultWithdrawInterval         = 3 * time.Second
	defaultWithdrawBatchSize        = 10
	defaultWithdrawMaxAttempts      = 3
	defaultTransferValidFor         = 5 * time.Minute
	defaultStuckCutoff              = 10 * time.Minute
	defaultRecoveryInterval         = time.Minute
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port                     string
	OpenAPISpecPath          string
	ShutdownTimeout          time.Duration
	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string

	ChainEndpointURL   string
	ChainAPIKey        string
	ChainLookbackLimit int

	// DepositAddress is the settlement account users pay into. Accepts raw
	// or friendly form; normalization happens at wiring time.
	DepositAddress   string
	USDTJettonMaster string

	WalletMnemonic string
	// WalletAddress pins the payout wallet address instead of deriving it
	// from the mnemonic.
	WalletAddress string

	WithdrawInterval    time.Duration
	WithdrawBatchSize   int
	WithdrawMaxAttempts int
	TransferValidFor    time.Duration
	StuckCutoff         time.Duration
	RecoveryInterval    time.Duration
}

func LoadConfig() (Config, *ConfigError) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(databaseURL)
	if parseErr != nil {
		return Config{}, parseErr
	}

	depositAddress := strings.TrimSpace(os.Getenv("DEPOSIT_ADDRESS"))
	if depositAddress == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DEPOSIT_ADDRESS_REQUIRED",
			Message: "DEPOSIT_ADDRESS is required",
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	migrationsPath := strings.TrimSpace(os.Getenv("MIGRATIONS_PATH"))
	if migrationsPath == "" {
		migrationsPath = defaultMigrationsPath
	}

	chainEndpointURL := strings.TrimSpace(os.Getenv("TONCENTER_BASE_URL"))
	if chainEndpointURL == "" {
		chainEndpointURL = defaultChainEndpointURL
	}

	lookbackLimit, cfgErr := intFromEnv("CHAIN_LOOKBACK_LIMIT", defaultChainLookbackLimit)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	withdrawInterval, cfgErr := durationFromEnv("WITHDRAW_INTERVAL", defaultWithdrawInterval)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	withdrawBatchSize, cfgErr := intFromEnv("WITHDRAW_BATCH_SIZE", defaultWithdrawBatchSize)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	withdrawMaxAttempts, cfgErr := intFromEnv("WITHDRAW_MAX_ATTEMPTS", defaultWithdrawMaxAttempts)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	transferValidFor, cfgErr := durationFromEnv("TRANSFER_VALID_FOR", defaultTransferValidFor)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	stuckCutoff, cfgErr := durationFromEnv("WITHDRAW_STUCK_CUTOFF", defaultStuckCutoff)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	recoveryInterval, cfgErr := durationFromEnv("WITHDRAW_RECOVERY_INTERVAL", defaultRecoveryInterval)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	return Config{
		Port:                     port,
		OpenAPISpecPath:          openAPISpecPath,
		ShutdownTimeout:          defaultShutdownTimeout,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           migrationsPath,
		ChainEndpointURL:         chainEndpointURL,
		ChainAPIKey:              strings.TrimSpace(os.Getenv("TONCENTER_API_KEY")),
		ChainLookbackLimit:       lookbackLimit,
		DepositAddress:           depositAddress,
		USDTJettonMaster:         strings.TrimSpace(os.Getenv("USDT_JETTON_MASTER")),
		WalletMnemonic:           strings.TrimSpace(os.Getenv("TON_WALLET_MNEMONIC")),
		WalletAddress:            strings.TrimSpace(os.Getenv("TON_WALLET_ADDRESS")),
		WithdrawInterval:         withdrawInterval,
		WithdrawBatchSize:        withdrawBatchSize,
		WithdrawMaxAttempts:      withdrawMaxAttempts,
		TransferValidFor:         transferValidFor,
		StuckCutoff:              stuckCutoff,
		RecoveryInterval:         recoveryInterval,
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

func intFromEnv(name string, fallback int) (int, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_" + name + "_INVALID",
			Message:  name + " must be a positive integer",
			Metadata: map[string]string{"value": raw},
		}
	}

	return parsed, nil
}

func durationFromEnv(name string, fallback time.Duration) (time.Duration, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_" + name + "_INVALID",
			Message:  name + " must be a positive duration",
			Metadata: map[string]string{"value": raw},
		}
	}

	return parsed, nil
}
