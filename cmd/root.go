package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "marketbot",
	Short: "Axie marketplace trading engine",
	Long: `Marketbot trades blockchain game assets on the Ronin marketplace:
it lists, cancels, and purchases sell orders for axies (ERC-721) and
crafting materials (ERC-1155).

Listing signs an EIP-712 order and posts it to the off-chain order book;
purchase and cancellation settle on chain through the market gateway.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
