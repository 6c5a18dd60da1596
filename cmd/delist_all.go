package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var delistAllCmd = &cobra.Command{
	Use:   "delist-all",
	Short: "Invalidate every axie listing in one transaction",
	Long: `Batch self-transfers every axie you own, which bumps their on-chain
state and invalidates all outstanding signed orders at once. Much
cheaper than canceling listings one by one.`,
	Args: cobra.NoArgs,
	RunE: runDelistAll,
}

func init() {
	rootCmd.AddCommand(delistAllCmd)
}

func runDelistAll(cmd *cobra.Command, args []string) error {
	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	fmt.Printf("=== Delist All Axies ===\n\n")

	result, err := tk.executor.DelistAllAxies(ctx)
	if err != nil {
		return err
	}

	printOutcome(result)

	return nil
}
