package order

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/roninmarket/marketbot/pkg/types"
)

// The exchange sub-modules decode these tuples byte-for-byte; any change in
// field order breaks settlement with an opaque revert.

var assetComponents = []abi.ArgumentMarshaling{
	{Name: "erc", Type: "uint8"},
	{Name: "addr", Type: "address"},
	{Name: "id", Type: "uint256"},
	{Name: "quantity", Type: "uint256"},
}

var nonFungibleOrderType = mustNewTupleType([]abi.ArgumentMarshaling{
	{Name: "maker", Type: "address"},
	{Name: "kind", Type: "uint8"},
	{Name: "assets", Type: "tuple[]", Components: assetComponents},
	{Name: "expiredAt", Type: "uint256"},
	{Name: "paymentToken", Type: "address"},
	{Name: "startedAt", Type: "uint256"},
	{Name: "basePrice", Type: "uint256"},
	{Name: "endedAt", Type: "uint256"},
	{Name: "endedPrice", Type: "uint256"},
	{Name: "expectedState", Type: "uint256"},
	{Name: "nonce", Type: "uint256"},
	{Name: "marketFeePercentage", Type: "uint256"},
})

// The fungible order tuple carries a single asset, unit prices, and no fee
// field. This is the shape the 1155 exchange accepts for cancelOrder and the
// shape the EIP-712 message mirrors.
var fungibleOrderType = mustNewTupleType([]abi.ArgumentMarshaling{
	{Name: "maker", Type: "address"},
	{Name: "kind", Type: "uint8"},
	{Name: "asset", Type: "tuple", Components: assetComponents},
	{Name: "expiredAt", Type: "uint256"},
	{Name: "paymentToken", Type: "address"},
	{Name: "startedAt", Type: "uint256"},
	{Name: "unitPrice", Type: "uint256"},
	{Name: "endedAt", Type: "uint256"},
	{Name: "endedUnitPrice", Type: "uint256"},
	{Name: "expectedState", Type: "uint256"},
	{Name: "nonce", Type: "uint256"},
})

// The ERC1155_EXCHANGE settle path decodes a different shape than its cancel
// path: fifteen flat scalars with the asset fields inlined and the market fee
// appended. The nested eleven-field tuple above is only valid for cancelOrder.
var fungibleSettlementType = mustNewTupleType([]abi.ArgumentMarshaling{
	{Name: "maker", Type: "address"},
	{Name: "kind", Type: "uint8"},
	{Name: "erc", Type: "uint8"},
	{Name: "assetAddr", Type: "address"},
	{Name: "assetId", Type: "uint256"},
	{Name: "assetQuantity", Type: "uint256"},
	{Name: "expiredAt", Type: "uint256"},
	{Name: "paymentToken", Type: "address"},
	{Name: "startedAt", Type: "uint256"},
	{Name: "basePrice", Type: "uint256"},
	{Name: "endedAt", Type: "uint256"},
	{Name: "endedPrice", Type: "uint256"},
	{Name: "expectedState", Type: "uint256"},
	{Name: "nonce", Type: "uint256"},
	{Name: "marketFeePercentage", Type: "uint256"},
})

var (
	nonFungibleArgs        = abi.Arguments{{Type: nonFungibleOrderType}}
	fungibleArgs           = abi.Arguments{{Type: fungibleOrderType}}
	fungibleSettlementArgs = abi.Arguments{{Type: fungibleSettlementType}}
)

func mustNewTupleType(components []abi.ArgumentMarshaling) abi.Type {
	t, err := abi.NewType("tuple", "", components)
	if err != nil {
		panic("order: build tuple type: " + err.Error())
	}
	return t
}

type abiAsset struct {
	Erc      uint8
	Addr     common.Address
	Id       *big.Int //nolint:revive // name must match the ABI component
	Quantity *big.Int
}

type abiNonFungibleOrder struct {
	Maker               common.Address
	Kind                uint8
	Assets              []abiAsset
	ExpiredAt           *big.Int
	PaymentToken        common.Address
	StartedAt           *big.Int
	BasePrice           *big.Int
	EndedAt             *big.Int
	EndedPrice          *big.Int
	ExpectedState       *big.Int
	Nonce               *big.Int
	MarketFeePercentage *big.Int
}

type abiFungibleOrder struct {
	Maker          common.Address
	Kind           uint8
	Asset          abiAsset
	ExpiredAt      *big.Int
	PaymentToken   common.Address
	StartedAt      *big.Int
	UnitPrice      *big.Int
	EndedAt        *big.Int
	EndedUnitPrice *big.Int
	ExpectedState  *big.Int
	Nonce          *big.Int
}

type abiFungibleSettlement struct {
	Maker               common.Address
	Kind                uint8
	Erc                 uint8
	AssetAddr           common.Address
	AssetId             *big.Int //nolint:revive // name must match the ABI component
	AssetQuantity       *big.Int
	ExpiredAt           *big.Int
	PaymentToken        common.Address
	StartedAt           *big.Int
	BasePrice           *big.Int
	EndedAt             *big.Int
	EndedPrice          *big.Int
	ExpectedState       *big.Int
	Nonce               *big.Int
	MarketFeePercentage *big.Int
}

func toABIAsset(a types.Asset) abiAsset {
	quantity := a.Quantity
	if quantity == nil {
		quantity = big.NewInt(0)
	}
	return abiAsset{
		Erc:      uint8(a.Standard),
		Addr:     a.ContractAddress,
		Id:       a.TokenID,
		Quantity: quantity,
	}
}

func expectedStateOrZero(o types.Order) *big.Int {
	if o.ExpectedState == nil {
		return big.NewInt(0)
	}
	return o.ExpectedState
}

// EncodeNonFungible produces the ABI tuple the ORDER_EXCHANGE sub-module
// decodes: a single-element asset array plus the market fee.
func EncodeNonFungible(o types.Order) ([]byte, error) {
	encoded, err := nonFungibleArgs.Pack(abiNonFungibleOrder{
		Maker:               o.Maker,
		Kind:                uint8(o.Kind),
		Assets:              []abiAsset{toABIAsset(o.Asset)},
		ExpiredAt:           big.NewInt(o.ExpiredAt),
		PaymentToken:        o.PaymentToken,
		StartedAt:           big.NewInt(o.StartedAt),
		BasePrice:           o.BasePrice,
		EndedAt:             big.NewInt(o.EndedAt),
		EndedPrice:          o.EndedPrice,
		ExpectedState:       expectedStateOrZero(o),
		Nonce:               new(big.Int).SetUint64(o.Nonce),
		MarketFeePercentage: new(big.Int).SetUint64(o.MarketFeePercentage),
	})
	if err != nil {
		return nil, fmt.Errorf("encode non-fungible order: %w", err)
	}
	return encoded, nil
}

// EncodeFungible produces the nested ABI tuple the ERC1155_EXCHANGE
// sub-module decodes for cancellation. Settlement uses the flat variant,
// EncodeFungibleSettlement.
func EncodeFungible(o types.Order) ([]byte, error) {
	encoded, err := fungibleArgs.Pack(abiFungibleOrder{
		Maker:          o.Maker,
		Kind:           uint8(o.Kind),
		Asset:          toABIAsset(o.Asset),
		ExpiredAt:      big.NewInt(o.ExpiredAt),
		PaymentToken:   o.PaymentToken,
		StartedAt:      big.NewInt(o.StartedAt),
		UnitPrice:      o.BasePrice,
		EndedAt:        big.NewInt(o.EndedAt),
		EndedUnitPrice: o.EndedPrice,
		ExpectedState:  expectedStateOrZero(o),
		Nonce:          new(big.Int).SetUint64(o.Nonce),
	})
	if err != nil {
		return nil, fmt.Errorf("encode fungible order: %w", err)
	}
	return encoded, nil
}

// EncodeFungibleSettlement produces the fifteen-scalar flat tuple the
// ERC1155_EXCHANGE settleOrder path decodes: asset fields inlined, market fee
// included.
func EncodeFungibleSettlement(o types.Order) ([]byte, error) {
	quantity := o.Asset.Quantity
	if quantity == nil {
		quantity = big.NewInt(0)
	}
	// The book omits the fee on fungible orders; the settle tuple still
	// carries the venue fee.
	fee := o.MarketFeePercentage
	if fee == 0 {
		fee = MarketFeePercentage
	}
	encoded, err := fungibleSettlementArgs.Pack(abiFungibleSettlement{
		Maker:               o.Maker,
		Kind:                uint8(o.Kind),
		Erc:                 uint8(o.Asset.Standard),
		AssetAddr:           o.Asset.ContractAddress,
		AssetId:             o.Asset.TokenID,
		AssetQuantity:       quantity,
		ExpiredAt:           big.NewInt(o.ExpiredAt),
		PaymentToken:        o.PaymentToken,
		StartedAt:           big.NewInt(o.StartedAt),
		BasePrice:           o.BasePrice,
		EndedAt:             big.NewInt(o.EndedAt),
		EndedPrice:          o.EndedPrice,
		ExpectedState:       expectedStateOrZero(o),
		Nonce:               new(big.Int).SetUint64(o.Nonce),
		MarketFeePercentage: new(big.Int).SetUint64(fee),
	})
	if err != nil {
		return nil, fmt.Errorf("encode fungible settlement order: %w", err)
	}
	return encoded, nil
}

// Encode selects the encoding variant by asset standard.
func Encode(o types.Order) ([]byte, error) {
	if o.Asset.Standard == types.StandardFungible {
		return EncodeFungible(o)
	}
	return EncodeNonFungible(o)
}

// DecodeNonFungible inverts EncodeNonFungible. Server-side fill state
// (available/remaining quantity) is not part of the encoding and comes back
// zero-valued.
func DecodeNonFungible(data []byte) (types.Order, error) {
	values, err := nonFungibleArgs.Unpack(data)
	if err != nil {
		return types.Order{}, fmt.Errorf("decode non-fungible order: %w", err)
	}

	decoded := abi.ConvertType(values[0], new(abiNonFungibleOrder)).(*abiNonFungibleOrder)
	if len(decoded.Assets) != 1 {
		return types.Order{}, fmt.Errorf("decode non-fungible order: expected 1 asset, got %d", len(decoded.Assets))
	}

	asset := decoded.Assets[0]
	return types.Order{
		Maker: decoded.Maker,
		Kind:  types.OrderKind(decoded.Kind),
		Asset: types.Asset{
			Standard:        types.AssetStandard(asset.Erc),
			ContractAddress: asset.Addr,
			TokenID:         asset.Id,
			Quantity:        asset.Quantity,
		},
		PaymentToken:        decoded.PaymentToken,
		StartedAt:           decoded.StartedAt.Int64(),
		EndedAt:             decoded.EndedAt.Int64(),
		ExpiredAt:           decoded.ExpiredAt.Int64(),
		BasePrice:           decoded.BasePrice,
		EndedPrice:          decoded.EndedPrice,
		ExpectedState:       decoded.ExpectedState,
		Nonce:               decoded.Nonce.Uint64(),
		MarketFeePercentage: decoded.MarketFeePercentage.Uint64(),
	}, nil
}

// DecodeFungibleSettlement inverts EncodeFungibleSettlement.
func DecodeFungibleSettlement(data []byte) (types.Order, error) {
	values, err := fungibleSettlementArgs.Unpack(data)
	if err != nil {
		return types.Order{}, fmt.Errorf("decode fungible settlement order: %w", err)
	}

	decoded := abi.ConvertType(values[0], new(abiFungibleSettlement)).(*abiFungibleSettlement)
	return types.Order{
		Maker: decoded.Maker,
		Kind:  types.OrderKind(decoded.Kind),
		Asset: types.Asset{
			Standard:        types.AssetStandard(decoded.Erc),
			ContractAddress: decoded.AssetAddr,
			TokenID:         decoded.AssetId,
			Quantity:        decoded.AssetQuantity,
		},
		PaymentToken:        decoded.PaymentToken,
		StartedAt:           decoded.StartedAt.Int64(),
		EndedAt:             decoded.EndedAt.Int64(),
		ExpiredAt:           decoded.ExpiredAt.Int64(),
		BasePrice:           decoded.BasePrice,
		EndedPrice:          decoded.EndedPrice,
		ExpectedState:       decoded.ExpectedState,
		Nonce:               decoded.Nonce.Uint64(),
		MarketFeePercentage: decoded.MarketFeePercentage.Uint64(),
	}, nil
}

// DecodeFungible inverts EncodeFungible.
func DecodeFungible(data []byte) (types.Order, error) {
	values, err := fungibleArgs.Unpack(data)
	if err != nil {
		return types.Order{}, fmt.Errorf("decode fungible order: %w", err)
	}

	decoded := abi.ConvertType(values[0], new(abiFungibleOrder)).(*abiFungibleOrder)
	return types.Order{
		Maker: decoded.Maker,
		Kind:  types.OrderKind(decoded.Kind),
		Asset: types.Asset{
			Standard:        types.AssetStandard(decoded.Asset.Erc),
			ContractAddress: decoded.Asset.Addr,
			TokenID:         decoded.Asset.Id,
			Quantity:        decoded.Asset.Quantity,
		},
		PaymentToken:  decoded.PaymentToken,
		StartedAt:     decoded.StartedAt.Int64(),
		EndedAt:       decoded.EndedAt.Int64(),
		ExpiredAt:     decoded.ExpiredAt.Int64(),
		BasePrice:     decoded.UnitPrice,
		EndedPrice:    decoded.EndedUnitPrice,
		ExpectedState: decoded.ExpectedState,
		Nonce:         decoded.Nonce.Uint64(),
	}, nil
}
