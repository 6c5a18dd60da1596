package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
)

var cancelMaterialCmd = &cobra.Command{
	Use:   "cancel-material <token-id>",
	Short: "Cancel all your listings for one material",
	Long: `Fetches every open sell order you have for the material token and
cancels each on chain. A failed cancellation does not stop the rest;
the summary reports both sides. Running with no open orders is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancelMaterial,
}

func init() {
	rootCmd.AddCommand(cancelMaterialCmd)
}

func runCancelMaterial(cmd *cobra.Command, args []string) error {
	tokenID := args[0]

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fmt.Printf("=== Cancel Material Listings for %s ===\n\n", tokenID)

	summary, err := tk.executor.CancelMaterialOrders(ctx, tokenID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %s\n", summary.RunID, summary.Message)
	for _, rec := range summary.CanceledOrders {
		price := rec.Price
		if wei, ok := new(big.Int).SetString(rec.Price, 10); ok {
			price = formatEther(wei)
		}
		fmt.Printf("  ✅ order %s (%s units at %s WETH): tx %s\n",
			rec.OrderID, rec.Quantity, price, rec.TxHash)
	}
	for _, f := range summary.FailedCancellations {
		fmt.Printf("  ❌ order %s: %s\n", f.OrderID, f.Reason)
	}

	return nil
}
