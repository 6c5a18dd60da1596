package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer <axie-id> <to-address>",
	Short: "Transfer an axie to another account",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransfer,
}

func init() {
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
	axieID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid axie id %q", args[0])
	}

	if !common.IsHexAddress(args[1]) {
		return fmt.Errorf("invalid recipient address %q", args[1])
	}
	to := common.HexToAddress(args[1])

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("=== Transfer Axie #%d to %s ===\n\n", axieID, to.Hex())

	result, err := tk.executor.TransferAxie(ctx, to, axieID)
	if err != nil {
		return err
	}

	printOutcome(result)

	return nil
}
