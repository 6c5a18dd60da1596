// Package pricing computes executable prices from live order book state:
// a market-wide floor for axies and per-token floor or quantity-weighted
// average prices for materials.
package pricing

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/order"
	"github.com/roninmarket/marketbot/pkg/types"
)

// catalogueSize bounds how many cheapest orders one floor query considers.
const catalogueSize = 50

// weiPerToken is the payment token's base unit scale.
var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Book is the slice of the order book client price discovery needs.
type Book interface {
	GetFloorCatalogue(ctx context.Context, size int) ([]types.Order, error)
	GetMaterialOrders(ctx context.Context, tokenID string, from, size int) (types.OrderBookPage, error)
}

// Engine computes price quotes. Caller is excluded from every candidate set
// (self-authored orders are never purchasable).
type Engine struct {
	book   Book
	caller common.Address
	logger *zap.Logger
	now    func() time.Time
}

// New creates a pricing engine for one caller address.
func New(book Book, caller common.Address, logger *zap.Logger) *Engine {
	return &Engine{
		book:   book,
		caller: caller,
		logger: logger,
		now:    time.Now,
	}
}

// AxieFloor returns the price of the cheapest valid listed axie across the
// whole catalogue. This is a market-wide floor, not a per-asset price.
func (e *Engine) AxieFloor(ctx context.Context) (types.Quote, error) {
	orders, err := e.book.GetFloorCatalogue(ctx, catalogueSize)
	if err != nil {
		return types.Quote{}, fmt.Errorf("fetch floor catalogue: %w", err)
	}

	valid := e.filterPurchasable(orders)
	if len(valid) == 0 {
		LiquidityFailuresTotal.Inc()
		return types.Quote{}, types.ErrNoActiveOrder
	}

	QuotesComputedTotal.WithLabelValues("axie_floor").Inc()
	return types.Quote{
		UnitPrice:  formatUnitPrice(valid[0].CurrentPrice, 1),
		OrdersUsed: 1,
	}, nil
}

// MaterialFloor computes an executable unit price for a material token.
// Quantity 0 means "the cheapest single unit". A positive quantity walks the
// ascending-price order list greedily and returns the quantity-weighted
// average unit price; if the cumulative available quantity cannot cover the
// request, no quote is returned.
func (e *Engine) MaterialFloor(ctx context.Context, tokenID string, quantity int64) (types.Quote, error) {
	page, err := e.book.GetMaterialOrders(ctx, tokenID, 0, catalogueSize)
	if err != nil {
		return types.Quote{}, fmt.Errorf("fetch material orders: %w", err)
	}

	valid := e.filterPurchasable(page.Orders)

	if quantity <= 0 {
		if len(valid) == 0 {
			LiquidityFailuresTotal.Inc()
			return types.Quote{}, types.ErrNoActiveOrder
		}
		QuotesComputedTotal.WithLabelValues("material_floor").Inc()
		return types.Quote{
			UnitPrice:  formatUnitPrice(valid[0].CurrentPrice, 1),
			OrdersUsed: 1,
		}, nil
	}

	// Depth is bounded by one page of the cheapest orders; an empty
	// candidate set or demand beyond the page both report insufficient
	// liquidity.
	remaining := big.NewInt(quantity)
	totalCost := new(big.Int)
	ordersUsed := 0

	// Equal prices are consumed in server order; no secondary sort.
	for _, o := range valid {
		take := new(big.Int).Set(o.Asset.AvailableQuantity)
		if take.Cmp(remaining) > 0 {
			take.Set(remaining)
		}

		totalCost.Add(totalCost, new(big.Int).Mul(take, o.CurrentPrice))
		remaining.Sub(remaining, take)
		ordersUsed++

		if remaining.Sign() == 0 {
			QuotesComputedTotal.WithLabelValues("material_average").Inc()
			return types.Quote{
				UnitPrice:  formatUnitPrice(totalCost, quantity),
				OrdersUsed: ordersUsed,
			}, nil
		}
	}

	LiquidityFailuresTotal.Inc()
	e.logger.Debug("insufficient-liquidity",
		zap.String("token-id", tokenID),
		zap.Int64("requested", quantity),
		zap.String("short-by", remaining.String()))
	return types.Quote{}, types.ErrInsufficientLiquidity
}

func (e *Engine) filterPurchasable(orders []types.Order) []types.Order {
	now := e.now().Unix()
	valid := make([]types.Order, 0, len(orders))
	for _, o := range orders {
		if order.Purchasable(o, e.caller, now) {
			valid = append(valid, o)
		}
	}
	return valid
}

// formatUnitPrice renders totalCost/quantity as payment-token units with six
// decimal digits, halves rounded away from zero.
func formatUnitPrice(totalCost *big.Int, quantity int64) string {
	denominator := new(big.Int).Mul(weiPerToken, big.NewInt(quantity))
	return new(big.Rat).SetFrac(totalCost, denominator).FloatString(6)
}
