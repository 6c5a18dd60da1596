package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roninmarket/marketbot/internal/settlement"
)

var listCmd = &cobra.Command{
	Use:   "list <axie-id> <price>",
	Short: "List an axie for sale",
	Long: `Signs a sell order for the axie and posts it to the order book.
Price is in WETH. With --ended-price and --duration the listing becomes
a Dutch auction decaying linearly between the two prices.`,
	Args: cobra.ExactArgs(2),
	RunE: runList,
}

var (
	listEndedPrice string
	listDuration   time.Duration
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listEndedPrice, "ended-price", "", "Auction end price in WETH")
	listCmd.Flags().DurationVar(&listDuration, "duration", 0, "Auction duration (1h to 168h)")
}

func runList(cmd *cobra.Command, args []string) error {
	axieID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid axie id %q", args[0])
	}

	basePrice, err := parseEther(args[1])
	if err != nil {
		return err
	}

	listing := settlement.Listing{BasePrice: basePrice}
	if listDuration != 0 {
		if listEndedPrice == "" {
			return fmt.Errorf("--duration requires --ended-price")
		}
		endedPrice, err := parseEther(listEndedPrice)
		if err != nil {
			return err
		}
		listing.EndedPrice = endedPrice
		listing.EndedAt = time.Now().Add(listDuration).Unix()
	}

	tk, cleanup, err := newToolkit()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("=== List Axie #%d ===\n\n", axieID)

	created, err := tk.executor.ListAxie(ctx, axieID, listing)
	if err != nil {
		return err
	}

	if created == nil {
		fmt.Printf("Axie #%d is already listed\n", axieID)
		return nil
	}

	fmt.Printf("✅ Listed at %s WETH (order %s)\n", formatEther(created.BasePrice), created.ID)
	if created.EndedAt != 0 {
		fmt.Printf("   Auction ends %s at %s WETH\n",
			time.Unix(created.EndedAt, 0).Format(time.RFC3339),
			formatEther(created.EndedPrice))
	}

	return nil
}
