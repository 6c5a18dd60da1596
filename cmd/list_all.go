package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listAllCmd = &cobra.Command{
	Use:   "list-all <price>",
	Short: "List every axie you own at one fixed price",
	Long: `Enumerates the axies in your wallet and posts a fixed-price sell order
for each. Axies that are already listed are skipped; other failures are
reported per axie without aborting the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runListAll,
}

func init() {
	rootCmd.AddCommand(listAllCmd)
}

func runListAll(cmd *cobra.Command, args []string) error {
	basePrice, err := parseEther(args[0])
	if err != nil {
		return err
	}

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fmt.Printf("=== List All Axies at %s WETH ===\n\n", args[0])

	result, err := tk.executor.ListAllAxies(ctx, basePrice)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d axies, %d listed, %d failed\n",
		result.RunID, result.Total, result.Succeeded, result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  ❌ axie %s: %s\n", e.Item, e.Reason)
	}

	return nil
}
