package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <axie-id>",
	Short: "Cancel your listing for one axie",
	Long: `Fetches your active sell order for the axie and invalidates it on chain
through the market gateway. Requires gas; the order book alone cannot
revoke a signed order.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("=== Cancel Listing for Axie #%d ===\n\n", axieID)

	result, err := tk.executor.CancelAxieOrder(ctx, axieID)
	if err != nil {
		return err
	}

	printOutcome(result)

	return nil
}
