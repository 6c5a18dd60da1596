// Package order holds the canonical order model: construction, validity
// rules, and the ABI encodings the exchange sub-modules decode.
package order

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roninmarket/marketbot/pkg/types"
)

const (
	// MarketFeePercentage is the venue fee in basis-point-like units
	// (425 = 4.25%). Carried in every non-fungible order.
	MarketFeePercentage = 425

	// ExpiryHorizonSeconds pins expiredAt relative to startedAt. Roughly six
	// months; not user-configurable.
	ExpiryHorizonSeconds = 15_634_800
)

// Dutch auction duration bounds.
const (
	MinAuctionDuration = time.Hour
	MaxAuctionDuration = 168 * time.Hour
)

// Pricing holds the price curve of a new order. EndedPrice is ignored for
// fixed-price orders.
type Pricing struct {
	BasePrice  *big.Int
	EndedPrice *big.Int
}

// Timing holds the time bounds of a new order. EndedAt == 0 makes a
// fixed-price order; nonzero makes a Dutch auction ending at that time.
type Timing struct {
	StartedAt int64
	EndedAt   int64
}

// New constructs a validated, unsigned sell order. expiredAt is pinned to
// the configured horizon and cannot be chosen by the caller.
func New(asset types.Asset, pricing Pricing, timing Timing, maker common.Address) (types.Order, error) {
	if pricing.BasePrice == nil || pricing.BasePrice.Sign() <= 0 {
		return types.Order{}, types.ErrInvalidPrice
	}

	endedPrice := big.NewInt(0)
	if timing.EndedAt != 0 {
		if pricing.EndedPrice == nil || pricing.EndedPrice.Sign() <= 0 {
			return types.Order{}, types.ErrInvalidPrice
		}
		endedPrice = new(big.Int).Set(pricing.EndedPrice)

		duration := time.Duration(timing.EndedAt-timing.StartedAt) * time.Second
		if duration < MinAuctionDuration || duration > MaxAuctionDuration {
			return types.Order{}, types.ErrInvalidDuration
		}
	}

	switch asset.Standard {
	case types.StandardFungible:
		if asset.Quantity == nil || asset.Quantity.Sign() <= 0 {
			return types.Order{}, types.ErrInvalidQuantity
		}
	case types.StandardNonFungible:
		// Quantity is "not applicable" for unique tokens; 0 is the canonical
		// sentinel in both the signed payload and the ABI encoding.
		asset.Quantity = big.NewInt(0)
	default:
		return types.Order{}, types.ErrInvalidQuantity
	}

	o := types.Order{
		Maker:               maker,
		Kind:                types.KindSell,
		Asset:               asset,
		StartedAt:           timing.StartedAt,
		EndedAt:             timing.EndedAt,
		ExpiredAt:           timing.StartedAt + ExpiryHorizonSeconds,
		BasePrice:           new(big.Int).Set(pricing.BasePrice),
		EndedPrice:          endedPrice,
		ExpectedState:       big.NewInt(0),
		Nonce:               0,
		MarketFeePercentage: MarketFeePercentage,
	}

	return o, nil
}

// IsValid reports whether an order can still be settled: not expired and
// with available quantity remaining on the book.
func IsValid(o types.Order, nowSeconds int64) bool {
	if nowSeconds >= o.ExpiredAt {
		return false
	}
	return o.Asset.AvailableQuantity != nil && o.Asset.AvailableQuantity.Sign() > 0
}

// Purchasable reports whether caller may settle the order: valid and not
// self-authored. An order with maker == caller is never a counter-party.
func Purchasable(o types.Order, caller common.Address, nowSeconds int64) bool {
	if o.Maker == caller {
		return false
	}
	return IsValid(o, nowSeconds)
}
