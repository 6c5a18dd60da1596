package cmd

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/settlement"
	"github.com/roninmarket/marketbot/internal/sign"
	"github.com/roninmarket/marketbot/pkg/cache"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/contracts"
)

// toolkit bundles everything a trading command needs.
type toolkit struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry contracts.Registry
	book     *marketplace.Client
	signer   *sign.PrivateKeySigner
	executor *settlement.Executor

	client   *ethclient.Client
	metadata cache.Cache
}

// bootstrap loads .env, configuration, and the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}

// newToolkit builds the shared command toolkit. The returned cleanup closes
// the chain connection and flushes the logger.
func newToolkit() (*toolkit, func(), error) {
	cfg, logger, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	keyHex := os.Getenv("RONIN_PRIVATE_KEY")
	if keyHex == "" {
		return nil, nil, fmt.Errorf("RONIN_PRIVATE_KEY not set in .env")
	}

	signer, err := sign.NewPrivateKeySigner(keyHex)
	if err != nil {
		return nil, nil, err
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to Ronin RPC: %w", err)
	}

	metadata, err := cache.New(&cache.Config{Logger: logger})
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("create metadata cache: %w", err)
	}

	session := config.SessionFromEnv()
	book := marketplace.NewClient(cfg.GraphQLURL, session, metadata, logger)
	registry := contracts.RegistryFromConfig(cfg)
	executor := settlement.New(client, signer, book, registry, cfg, logger)

	tk := &toolkit{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		book:     book,
		signer:   signer,
		executor: executor,
		client:   client,
		metadata: metadata,
	}

	cleanup := func() {
		client.Close()
		metadata.Close()
		_ = logger.Sync()
	}

	return tk, cleanup, nil
}

// parseEther parses a decimal ether amount into wei.
func parseEther(value string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(value)
	if !ok || r.Sign() <= 0 {
		return nil, fmt.Errorf("invalid ether amount %q", value)
	}
	r.Mul(r, new(big.Rat).SetInt64(1_000_000_000_000_000_000))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q has sub-wei precision", value)
	}
	return r.Num(), nil
}

// formatEther renders a wei amount as decimal ether.
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(wei, big.NewInt(1_000_000_000_000_000_000))
	return r.FloatString(6)
}

// printOutcome renders a settlement result for the terminal.
func printOutcome(result *settlement.SettleResult) {
	switch result.State {
	case settlement.StateSuccess:
		fmt.Printf("✅ Success: tx %s\n", result.TxHash.Hex())
	case settlement.StateReverted:
		fmt.Printf("❌ Reverted on chain: tx %s\n", result.TxHash.Hex())
	case settlement.StateTimedOut:
		fmt.Printf("⏳ No receipt before timeout: tx %s\n", result.TxHash.Hex())
		fmt.Printf("   The transaction may still mine; check the explorer before retrying.\n")
	case settlement.StateNoop:
		fmt.Printf("Nothing to do: %s\n", result.Reason)
	default:
		fmt.Printf("❌ Rejected before submission: %s\n", result.Reason)
	}
}
