package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/pricing"
	"github.com/roninmarket/marketbot/internal/sign"
	"github.com/roninmarket/marketbot/pkg/config"
)

var floorCmd = &cobra.Command{
	Use:   "floor [token-id]",
	Short: "Show the current floor price",
	Long: `Without arguments, shows the market-wide axie floor. With a material
token ID, shows the cheapest unit price; add --quantity for the
weighted average unit price of filling that quantity across orders.

Needs no private key. If one is configured, your own orders are
excluded from the floor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFloor,
}

var floorQuantity int64

func init() {
	rootCmd.AddCommand(floorCmd)

	floorCmd.Flags().Int64VarP(&floorQuantity, "quantity", "q", 0, "Quantity to price across orders")
}

func runFloor(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Exclude own orders when a key is available
	caller := common.Address{}
	if keyHex := os.Getenv("RONIN_PRIVATE_KEY"); keyHex != "" {
		signer, err := sign.NewPrivateKeySigner(keyHex)
		if err != nil {
			return err
		}
		caller = signer.Address()
	}

	session := config.SessionFromEnv()
	book := marketplace.NewClient(cfg.GraphQLURL, session, nil, logger)
	engine := pricing.New(book, caller, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if len(args) == 0 {
		quote, err := engine.AxieFloor(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Axie floor: %s WETH\n", quote.UnitPrice)
		return nil
	}

	tokenID := args[0]
	quote, err := engine.MaterialFloor(ctx, tokenID, floorQuantity)
	if err != nil {
		return err
	}

	if floorQuantity > 0 {
		fmt.Printf("Material %s x%d: %s WETH per unit across %d orders\n",
			tokenID, floorQuantity, quote.UnitPrice, quote.OrdersUsed)
	} else {
		fmt.Printf("Material %s floor: %s WETH per unit\n", tokenID, quote.UnitPrice)
	}

	return nil
}
