package marketplace

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roninmarket/marketbot/pkg/types"
)

// The order book serves loosely-typed JSON: numeric fields arrive as strings
// or numbers depending on the query. Everything is decoded into validated
// values here, at the boundary; nothing unvalidated reaches the encoder.

// flexString accepts a JSON string or number and normalizes to a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexString(s)
	return nil
}

// flexUint64 accepts a JSON string or number; empty and null decode to 0.
type flexUint64 uint64

func (f *flexUint64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %q as uint: %w", s, err)
	}
	*f = flexUint64(v)
	return nil
}

type wireAsset struct {
	Erc               string     `json:"erc"`
	Address           string     `json:"address"`
	ID                flexString `json:"id"`
	Quantity          flexString `json:"quantity"`
	OrderID           flexString `json:"orderId"`
	AvailableQuantity flexString `json:"availableQuantity"`
	RemainingQuantity flexString `json:"remainingQuantity"`
}

type wireOrder struct {
	ID                  flexString  `json:"id"`
	Maker               string      `json:"maker"`
	Kind                string      `json:"kind"`
	Assets              []wireAsset `json:"assets"`
	ExpiredAt           int64       `json:"expiredAt"`
	PaymentToken        string      `json:"paymentToken"`
	StartedAt           int64       `json:"startedAt"`
	BasePrice           flexString  `json:"basePrice"`
	EndedAt             int64       `json:"endedAt"`
	EndedPrice          flexString  `json:"endedPrice"`
	ExpectedState       flexString  `json:"expectedState"`
	Nonce               flexUint64  `json:"nonce"`
	MarketFeePercentage flexUint64  `json:"marketFeePercentage"`
	Signature           string      `json:"signature"`
	CurrentPrice        flexString  `json:"currentPrice"`
}

func parseBig(s flexString) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(string(s), 10)
	if !ok {
		return nil, fmt.Errorf("parse %q as integer", s)
	}
	return v, nil
}

func parseStandard(erc string) (types.AssetStandard, error) {
	switch strings.ToLower(erc) {
	case "erc721":
		return types.StandardNonFungible, nil
	case "erc1155":
		return types.StandardFungible, nil
	default:
		return 0, fmt.Errorf("unknown asset standard %q", erc)
	}
}

func (w wireOrder) toOrder() (types.Order, error) {
	if len(w.Assets) != 1 {
		return types.Order{}, fmt.Errorf("order %s: expected 1 asset, got %d", w.ID, len(w.Assets))
	}

	wa := w.Assets[0]
	standard, err := parseStandard(wa.Erc)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s: %w", w.ID, err)
	}

	tokenID, err := parseBig(wa.ID)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s token id: %w", w.ID, err)
	}
	quantity, err := parseBig(wa.Quantity)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s quantity: %w", w.ID, err)
	}
	available, err := parseBig(wa.AvailableQuantity)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s available quantity: %w", w.ID, err)
	}
	remaining, err := parseBig(wa.RemainingQuantity)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s remaining quantity: %w", w.ID, err)
	}

	basePrice, err := parseBig(w.BasePrice)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s base price: %w", w.ID, err)
	}
	endedPrice, err := parseBig(w.EndedPrice)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s ended price: %w", w.ID, err)
	}
	expectedState, err := parseBig(w.ExpectedState)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s expected state: %w", w.ID, err)
	}
	currentPrice, err := parseBig(w.CurrentPrice)
	if err != nil {
		return types.Order{}, fmt.Errorf("order %s current price: %w", w.ID, err)
	}

	kind := types.KindSell
	if w.Kind != "" && !strings.EqualFold(w.Kind, "sell") && w.Kind != "1" {
		return types.Order{}, fmt.Errorf("order %s: unsupported kind %q", w.ID, w.Kind)
	}

	return types.Order{
		ID:    string(w.ID),
		Maker: common.HexToAddress(w.Maker),
		Kind:  kind,
		Asset: types.Asset{
			Standard:          standard,
			ContractAddress:   common.HexToAddress(wa.Address),
			TokenID:           tokenID,
			Quantity:          quantity,
			AvailableQuantity: available,
			RemainingQuantity: remaining,
			OrderID:           string(wa.OrderID),
		},
		PaymentToken:        common.HexToAddress(w.PaymentToken),
		StartedAt:           w.StartedAt,
		EndedAt:             w.EndedAt,
		ExpiredAt:           w.ExpiredAt,
		BasePrice:           basePrice,
		EndedPrice:          endedPrice,
		ExpectedState:       expectedState,
		Nonce:               uint64(w.Nonce),
		MarketFeePercentage: uint64(w.MarketFeePercentage),
		Signature:           w.Signature,
		CurrentPrice:        currentPrice,
	}, nil
}

func toOrders(wires []wireOrder) ([]types.Order, error) {
	orders := make([]types.Order, 0, len(wires))
	for _, w := range wires {
		o, err := w.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
