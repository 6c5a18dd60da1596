package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is created once per run
// and never mutated afterwards.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Marketplace API
	GraphQLURL string
	APIKey     string

	// Ronin chain
	RPCURL  string
	ChainID int64

	// Contract address overrides. Empty means the built-in mainnet address.
	GatewayAddress       string
	AxieAddress          string
	MaterialAddress      string
	WETHAddress          string
	BatchTransferAddress string
	ERC1155Exchange      string

	// Gas policy, per operation class. Prices in gwei.
	SettleGasPriceGwei   int64
	CancelGasPriceGwei   int64
	ApproveGasPriceGwei  int64
	TransferGasPriceGwei int64
	CancelGasLimit       uint64
	SettleGasBuffer      uint64
	SettleGasCap         uint64

	// ReceiptTimeout bounds the wait for a mined receipt after submission.
	ReceiptTimeout time.Duration

	// AbortOnPriceDrift makes settlement abort when the re-fetched order
	// price exceeds the quoted snapshot. When false the drift is only logged.
	AbortOnPriceDrift bool

	// Watch command
	FloorPollInterval time.Duration
	WatchMaterials    []string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		GraphQLURL: getEnvOrDefault("MARKETPLACE_GRAPHQL_URL", "https://api-gateway.skymavis.com/graphql/axie-marketplace"),
		APIKey:     os.Getenv("SKYMAVIS_API_KEY"),

		RPCURL:  getEnvOrDefault("RONIN_RPC_URL", "https://api-gateway.skymavis.com/rpc"),
		ChainID: getInt64OrDefault("RONIN_CHAIN_ID", 2020),

		GatewayAddress:       os.Getenv("MARKET_GATEWAY_ADDRESS"),
		AxieAddress:          os.Getenv("AXIE_CONTRACT_ADDRESS"),
		MaterialAddress:      os.Getenv("MATERIAL_CONTRACT_ADDRESS"),
		WETHAddress:          os.Getenv("WETH_CONTRACT_ADDRESS"),
		BatchTransferAddress: os.Getenv("BATCH_TRANSFER_ADDRESS"),
		ERC1155Exchange:      os.Getenv("ERC1155_EXCHANGE_ADDRESS"),

		SettleGasPriceGwei:   getInt64OrDefault("SETTLE_GAS_PRICE_GWEI", 20),
		CancelGasPriceGwei:   getInt64OrDefault("CANCEL_GAS_PRICE_GWEI", 30),
		ApproveGasPriceGwei:  getInt64OrDefault("APPROVE_GAS_PRICE_GWEI", 26),
		TransferGasPriceGwei: getInt64OrDefault("TRANSFER_GAS_PRICE_GWEI", 25),
		CancelGasLimit:       getUint64OrDefault("CANCEL_GAS_LIMIT", 110000),
		SettleGasBuffer:      getUint64OrDefault("SETTLE_GAS_BUFFER", 50000),
		SettleGasCap:         getUint64OrDefault("SETTLE_GAS_CAP", 600000),

		ReceiptTimeout: getDurationOrDefault("RECEIPT_TIMEOUT", 120*time.Second),

		AbortOnPriceDrift: getBoolOrDefault("ABORT_ON_PRICE_DRIFT", true),

		FloorPollInterval: getDurationOrDefault("FLOOR_POLL_INTERVAL", time.Minute),
		WatchMaterials:    getListOrDefault("WATCH_MATERIAL_IDS", nil),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.GraphQLURL == "" {
		return fmt.Errorf("MARKETPLACE_GRAPHQL_URL cannot be empty")
	}

	if c.RPCURL == "" {
		return fmt.Errorf("RONIN_RPC_URL cannot be empty")
	}

	if c.ChainID <= 0 {
		return fmt.Errorf("RONIN_CHAIN_ID must be positive, got %d", c.ChainID)
	}

	if c.SettleGasPriceGwei <= 0 || c.CancelGasPriceGwei <= 0 {
		return fmt.Errorf("gas prices must be positive")
	}

	if c.ReceiptTimeout <= 0 {
		return fmt.Errorf("RECEIPT_TIMEOUT must be positive, got %s", c.ReceiptTimeout)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getUint64OrDefault(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
