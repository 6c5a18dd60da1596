package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AssetStandard identifies the token standard of a traded asset.
// The numeric values match the codes the exchange contracts decode.
type AssetStandard uint8

const (
	// StandardNonFungible is an ERC-721 asset (one unique token per order).
	StandardNonFungible AssetStandard = 1
	// StandardFungible is an ERC-1155 asset (divisible quantity, partial fills).
	StandardFungible AssetStandard = 2
)

// OrderKind identifies the side of an order. Only sell orders are created
// by this system; the numeric value matches the on-chain encoding.
type OrderKind uint8

// KindSell is the only order kind this system constructs.
const KindSell OrderKind = 1

// Asset is one traded unit reference inside an order.
type Asset struct {
	Standard        AssetStandard
	ContractAddress common.Address
	TokenID         *big.Int
	// Quantity is the quantity offered by the order. Non-fungible assets
	// always carry 0 here; the on-chain decoder treats it as "not applicable".
	Quantity *big.Int
	// AvailableQuantity and RemainingQuantity are server-reported fill state.
	// They are never signed or encoded.
	AvailableQuantity *big.Int
	RemainingQuantity *big.Int
	OrderID           string
}

// Order is a signed, time-bounded sell intent fetched from or destined for
// the remote order book.
type Order struct {
	ID           string
	Maker        common.Address
	Kind         OrderKind
	Asset        Asset
	PaymentToken common.Address

	// UNIX seconds. EndedAt == 0 marks a fixed-price order; a nonzero value
	// marks a linear Dutch auction from BasePrice to EndedPrice over
	// [StartedAt, EndedAt].
	StartedAt int64
	EndedAt   int64
	ExpiredAt int64

	BasePrice  *big.Int
	EndedPrice *big.Int

	// ExpectedState is an optimistic-concurrency token guarding against
	// settling against stale on-chain approval state. Zero when unused.
	ExpectedState *big.Int
	Nonce         uint64

	// MarketFeePercentage is the venue fee in basis-point-like units
	// (425 = 4.25%). Only present in the non-fungible encoding.
	MarketFeePercentage uint64

	Signature string

	// CurrentPrice is the server-computed instantaneous price as of query
	// time. Derived, never signed.
	CurrentPrice *big.Int
}

// OrderBookPage is one query result for a single asset: orders sorted
// ascending by price, plus server-side totals. Pages are fetched on demand
// and never cached.
type OrderBookPage struct {
	Orders []Order
	// Total is the number of orders the server reports for the asset,
	// which may exceed len(Orders) for paginated queries.
	Total int
	// TotalListed is the summed listed quantity across all orders, when the
	// server reports it.
	TotalListed *big.Int
}

// Quote is the output of price discovery: a unit price formatted with six
// decimal digits, and the number of distinct orders a fill would consume.
type Quote struct {
	UnitPrice  string
	OrdersUsed int
}
