package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show your balances, approvals, and holdings",
	Long: `Display the signing account's current state:
- RON balance (for gas)
- WETH and USDC balances
- WETH allowance approved to the ERC-1155 exchange
- Marketplace gateway approval for the axie collection
- Owned axies and crafting materials`,
	Args: cobra.NoArgs,
	RunE: runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	info, err := tk.executor.AccountInfo(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("=== Account ===\n\n")
	fmt.Printf("Address: %s\n\n", info.Address.Hex())
	fmt.Printf("RON Balance:  %s RON\n", formatEther(info.RON))
	fmt.Printf("WETH Balance: %s WETH\n", formatEther(info.WETH))

	// USDC uses 6 decimals
	usdc := new(big.Rat).SetFrac(info.USDC, big.NewInt(1_000_000))
	fmt.Printf("USDC Balance: %s USDC\n\n", usdc.FloatString(2))

	if info.ExchangeAllowance.Cmp(new(big.Int).Lsh(big.NewInt(1), 128)) > 0 {
		fmt.Printf("Exchange WETH Allowance: Unlimited ✅\n")
	} else {
		fmt.Printf("Exchange WETH Allowance: %s WETH\n", formatEther(info.ExchangeAllowance))
	}

	if info.GatewayApproved {
		fmt.Printf("Gateway Collection Approval: ✅\n")
	} else {
		fmt.Printf("Gateway Collection Approval: ❌ (granted automatically on first listing)\n")
	}

	fmt.Printf("\n=== Axies (%d) ===\n", len(info.AxieIDs))
	for _, id := range info.AxieIDs {
		fmt.Printf("  #%s\n", id.String())
	}

	materials, err := tk.book.GetUserMaterials(ctx, info.Address)
	if err != nil {
		fmt.Printf("\nError fetching materials: %v\n", err)
		return nil
	}

	fmt.Printf("\n=== Materials (%d) ===\n", len(materials))
	for _, m := range materials {
		fmt.Printf("  %s (token %s): %d units\n", m.Name, m.TokenID, m.Quantity)
	}

	return nil
}
