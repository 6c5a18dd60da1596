package sign

import (
	"strconv"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/roninmarket/marketbot/pkg/types"
)

// The signed field sets must match, field for field, what the order book
// verifies and what later gets ABI-encoded for settlement and cancellation.

var eip712DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var assetType = []apitypes.Type{
	{Name: "erc", Type: "uint8"},
	{Name: "addr", Type: "address"},
	{Name: "id", Type: "uint256"},
	{Name: "quantity", Type: "uint256"},
}

// NonFungibleOrderTypedData builds the typed data for an ERC-721 sell order:
// an assets array plus the market fee.
func NonFungibleOrderTypedData(o types.Order, domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Asset":        assetType,
			"Order": []apitypes.Type{
				{Name: "maker", Type: "address"},
				{Name: "kind", Type: "uint8"},
				{Name: "assets", Type: "Asset[]"},
				{Name: "expiredAt", Type: "uint256"},
				{Name: "paymentToken", Type: "address"},
				{Name: "startedAt", Type: "uint256"},
				{Name: "basePrice", Type: "uint256"},
				{Name: "endedAt", Type: "uint256"},
				{Name: "endedPrice", Type: "uint256"},
				{Name: "expectedState", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "marketFeePercentage", Type: "uint256"},
			},
		},
		PrimaryType: "Order",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"maker": o.Maker.Hex(),
			"kind":  strconv.Itoa(int(o.Kind)),
			"assets": []interface{}{
				assetMessage(o.Asset),
			},
			"expiredAt":           strconv.FormatInt(o.ExpiredAt, 10),
			"paymentToken":        o.PaymentToken.Hex(),
			"startedAt":           strconv.FormatInt(o.StartedAt, 10),
			"basePrice":           o.BasePrice.String(),
			"endedAt":             strconv.FormatInt(o.EndedAt, 10),
			"endedPrice":          o.EndedPrice.String(),
			"expectedState":       o.ExpectedState.String(),
			"nonce":               strconv.FormatUint(o.Nonce, 10),
			"marketFeePercentage": strconv.FormatUint(o.MarketFeePercentage, 10),
		},
	}
}

// FungibleOrderTypedData builds the typed data for an ERC-1155 sell order:
// a singular asset, unit price names, and no fee field.
func FungibleOrderTypedData(o types.Order, domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Asset":        assetType,
			"ERC1155Order": []apitypes.Type{
				{Name: "maker", Type: "address"},
				{Name: "kind", Type: "uint8"},
				{Name: "asset", Type: "Asset"},
				{Name: "expiredAt", Type: "uint256"},
				{Name: "paymentToken", Type: "address"},
				{Name: "startedAt", Type: "uint256"},
				{Name: "unitPrice", Type: "uint256"},
				{Name: "endedAt", Type: "uint256"},
				{Name: "endedUnitPrice", Type: "uint256"},
				{Name: "expectedState", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
			},
		},
		PrimaryType: "ERC1155Order",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"maker":          o.Maker.Hex(),
			"kind":           strconv.Itoa(int(o.Kind)),
			"asset":          assetMessage(o.Asset),
			"expiredAt":      strconv.FormatInt(o.ExpiredAt, 10),
			"paymentToken":   o.PaymentToken.Hex(),
			"startedAt":      strconv.FormatInt(o.StartedAt, 10),
			"unitPrice":      o.BasePrice.String(),
			"endedAt":        strconv.FormatInt(o.EndedAt, 10),
			"endedUnitPrice": o.EndedPrice.String(),
			"expectedState":  o.ExpectedState.String(),
			"nonce":          strconv.FormatUint(o.Nonce, 10),
		},
	}
}

// OrderTypedData selects the schema by asset standard.
func OrderTypedData(o types.Order, domain apitypes.TypedDataDomain) apitypes.TypedData {
	if o.Asset.Standard == types.StandardFungible {
		return FungibleOrderTypedData(o, domain)
	}
	return NonFungibleOrderTypedData(o, domain)
}

func assetMessage(a types.Asset) map[string]interface{} {
	return map[string]interface{}{
		"erc":      strconv.Itoa(int(a.Standard)),
		"addr":     a.ContractAddress.Hex(),
		"id":       a.TokenID.String(),
		"quantity": a.Quantity.String(),
	}
}
