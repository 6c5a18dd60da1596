package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listMaterialCmd = &cobra.Command{
	Use:   "list-material <token-id> <unit-price>",
	Short: "List crafting materials for sale",
	Long: `Signs a fixed-price sell order for a quantity of one material token and
posts it to the order book. Unit price is in WETH per unit. Without
--quantity the full owned balance is listed.`,
	Args: cobra.ExactArgs(2),
	RunE: runListMaterial,
}

var listMaterialQuantity int64

func init() {
	rootCmd.AddCommand(listMaterialCmd)

	listMaterialCmd.Flags().Int64VarP(&listMaterialQuantity, "quantity", "q", 0, "Units to list (0 = all owned)")
}

func runListMaterial(cmd *cobra.Command, args []string) error {
	tokenID := args[0]

	unitPrice, err := parseEther(args[1])
	if err != nil {
		return err
	}

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("=== List Material %s ===\n\n", tokenID)

	created, err := tk.executor.ListMaterial(ctx, tokenID, listMaterialQuantity, unitPrice)
	if err != nil {
		return err
	}

	if created == nil {
		fmt.Printf("Order was not recorded by the book\n")
		return nil
	}

	fmt.Printf("✅ Listed %s units at %s WETH each (order %s)\n",
		created.Asset.Quantity.String(), formatEther(created.BasePrice), created.ID)

	return nil
}
