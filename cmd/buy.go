package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy <axie-id>",
	Short: "Buy an axie at its current listed price",
	Long: `Fetches the active sell order for the axie, checks your WETH balance,
re-validates the price, and settles the order on chain through the
market gateway.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuy,
}

func init() {
	rootCmd.AddCommand(buyCmd)
}

func runBuy(cmd *cobra.Command, args []string) error {
	axieID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid axie id %q", args[0])
	}

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("=== Buy Axie #%d ===\n\n", axieID)

	result, err := tk.executor.BuyAxie(ctx, axieID)
	if err != nil {
		return err
	}

	if result.Order != nil {
		fmt.Printf("Price: %s WETH\n", formatEther(result.Order.CurrentPrice))
		fmt.Printf("Seller: %s\n\n", result.Order.Maker.Hex())
	}
	printOutcome(result)

	return nil
}
