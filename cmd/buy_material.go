package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var buyMaterialCmd = &cobra.Command{
	Use:   "buy-material <token-id> <quantity>",
	Short: "Buy a quantity of a crafting material",
	Long: `Finds the cheapest sell order with enough available quantity, approves
the exchange's WETH allowance if needed, and settles a partial fill of
the requested quantity on chain.`,
	Args: cobra.ExactArgs(2),
	RunE: runBuyMaterial,
}

func init() {
	rootCmd.AddCommand(buyMaterialCmd)
}

func runBuyMaterial(cmd *cobra.Command, args []string) error {
	tokenID := args[0]
	quantity, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || quantity <= 0 {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("=== Buy Material %s x%d ===\n\n", tokenID, quantity)

	result, err := tk.executor.BuyMaterial(ctx, tokenID, quantity)
	if err != nil {
		return err
	}

	if result.Order != nil {
		fmt.Printf("Unit price: %s WETH\n", formatEther(result.Order.CurrentPrice))
		fmt.Printf("Seller: %s\n\n", result.Order.Maker.Hex())
	}
	printOutcome(result)

	return nil
}
