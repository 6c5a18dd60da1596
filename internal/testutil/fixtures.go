// Package testutil holds fixtures and mock backends shared by the package
// tests: canned orders, a fake order book server, and a fake chain provider.
package testutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roninmarket/marketbot/pkg/types"
)

// Deterministic test accounts. TestKey is a throwaway key; its address is
// TestMaker.
const (
	TestKey      = "0x4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	TestKeyAddr  = "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"
	OtherAddress = "0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0"
)

// TestMaker returns the address of TestKey.
func TestMaker() common.Address {
	return common.HexToAddress(TestKeyAddr)
}

// Wei converts a decimal ether amount into wei.
func Wei(eth string) *big.Int {
	r, ok := new(big.Rat).SetString(eth)
	if !ok {
		panic("testutil: bad ether amount " + eth)
	}
	r.Mul(r, new(big.Rat).SetInt64(1_000_000_000_000_000_000))
	if !r.IsInt() {
		panic("testutil: sub-wei precision in " + eth)
	}
	return r.Num()
}

// AxieOrder returns a valid non-fungible sell order for one axie.
func AxieOrder(axieID int64, priceEth string, maker common.Address) types.Order {
	price := Wei(priceEth)
	return types.Order{
		ID:    "order-axie-" + big.NewInt(axieID).String(),
		Maker: maker,
		Kind:  types.KindSell,
		Asset: types.Asset{
			Standard:          types.StandardNonFungible,
			ContractAddress:   common.HexToAddress("0x32950db2a7164ae833121501c797d79e7b79d74c"),
			TokenID:           big.NewInt(axieID),
			Quantity:          big.NewInt(0),
			AvailableQuantity: big.NewInt(1),
		},
		PaymentToken:        common.HexToAddress("0xc99a6a985ed2cac1ef41640596c5a5f9f4e19ef5"),
		StartedAt:           1_700_000_000,
		EndedAt:             0,
		ExpiredAt:           1_700_000_000 + 15_634_800,
		BasePrice:           price,
		EndedPrice:          big.NewInt(0),
		ExpectedState:       big.NewInt(0),
		Nonce:               0,
		MarketFeePercentage: 425,
		Signature:           "0x1122",
		CurrentPrice:        new(big.Int).Set(price),
	}
}

// MaterialOrder returns a valid fungible sell order with the given available
// quantity and unit price.
func MaterialOrder(id string, available int64, unitPriceEth string, maker common.Address) types.Order {
	price := Wei(unitPriceEth)
	tokenID, ok := new(big.Int).SetString(id, 10)
	if !ok {
		panic("testutil: bad token id " + id)
	}
	return types.Order{
		ID:    "order-material-" + id,
		Maker: maker,
		Kind:  types.KindSell,
		Asset: types.Asset{
			Standard:          types.StandardFungible,
			ContractAddress:   common.HexToAddress("0xa96660f0e4a3e9bc7388925d245a6d4d79e21259"),
			TokenID:           tokenID,
			Quantity:          big.NewInt(available),
			AvailableQuantity: big.NewInt(available),
		},
		PaymentToken:  common.HexToAddress("0xc99a6a985ed2cac1ef41640596c5a5f9f4e19ef5"),
		StartedAt:     1_700_000_000,
		EndedAt:       0,
		ExpiredAt:     1_700_000_000 + 15_634_800,
		BasePrice:     price,
		EndedPrice:    big.NewInt(0),
		ExpectedState: big.NewInt(0),
		Signature:     "0x3344",
		CurrentPrice:  new(big.Int).Set(price),
	}
}
