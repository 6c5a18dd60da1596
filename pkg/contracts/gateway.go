// Package contracts holds the contract addresses and the minimal ABI surface
// the engine calls: the market gateway dispatch, the two exchange sub-modules,
// and the token standards involved in approvals and transfers.
package contracts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const gatewayABIJSON = `[
	{"name":"interactWith","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"_interface","type":"string"},{"name":"_data","type":"bytes"}],
	 "outputs":[]}
]`

// Both exchange sub-modules share the cancelOrder shape; settleOrder differs
// by an extra quantity argument on the ERC-1155 side.
const orderExchangeABIJSON = `[
	{"name":"settleOrder","type":"function","stateMutability":"nonpayable",
	 "inputs":[
	   {"name":"_settleInfo","type":"tuple","components":[
	     {"name":"orderData","type":"bytes"},
	     {"name":"signature","type":"bytes"},
	     {"name":"referralAddr","type":"address"},
	     {"name":"expectedState","type":"uint256"},
	     {"name":"recipient","type":"address"},
	     {"name":"refunder","type":"address"}]},
	   {"name":"_settlePrice","type":"uint256"}],
	 "outputs":[]},
	{"name":"cancelOrder","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"_order","type":"bytes"}],"outputs":[]}
]`

const erc1155ExchangeABIJSON = `[
	{"name":"settleOrder","type":"function","stateMutability":"nonpayable",
	 "inputs":[
	   {"name":"_settleInfo","type":"tuple","components":[
	     {"name":"orderData","type":"bytes"},
	     {"name":"signature","type":"bytes"},
	     {"name":"referralAddr","type":"address"},
	     {"name":"expectedState","type":"uint256"},
	     {"name":"recipient","type":"address"},
	     {"name":"refunder","type":"address"}]},
	   {"name":"_quantity","type":"uint256"},
	   {"name":"_settlePrice","type":"uint256"}],
	 "outputs":[]},
	{"name":"cancelOrder","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"_order","type":"bytes"}],"outputs":[]}
]`

const erc20ABIJSON = `[
	{"name":"balanceOf","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"allowance","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"approve","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

const erc721ABIJSON = `[
	{"name":"balanceOf","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"tokenOfOwnerByIndex","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"isApprovedForAll","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"name":"setApprovalForAll","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],
	 "outputs":[]},
	{"name":"safeTransferFrom","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],
	 "outputs":[]}
]`

const erc1155ABIJSON = `[
	{"name":"balanceOf","type":"function","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"},{"name":"id","type":"uint256"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"isApprovedForAll","type":"function","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"},{"name":"operator","type":"address"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"name":"setApprovalForAll","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],
	 "outputs":[]}
]`

const batchTransferABIJSON = `[
	{"name":"safeBatchTransfer","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"_tokenContract","type":"address"},{"name":"_ids","type":"uint256[]"},{"name":"_recipient","type":"address"}],
	 "outputs":[]}
]`

var (
	GatewayABI         = mustParseABI(gatewayABIJSON)
	OrderExchangeABI   = mustParseABI(orderExchangeABIJSON)
	ERC1155ExchangeABI = mustParseABI(erc1155ExchangeABIJSON)
	ERC20ABI           = mustParseABI(erc20ABIJSON)
	ERC721ABI          = mustParseABI(erc721ABIJSON)
	ERC1155ABI         = mustParseABI(erc1155ABIJSON)
	BatchTransferABI   = mustParseABI(batchTransferABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("contracts: parse ABI: " + err.Error())
	}
	return parsed
}

// SettleInfo is the tuple the exchange sub-modules consume to execute a
// purchase. Field names must match the ABI component names.
type SettleInfo struct {
	OrderData     []byte
	Signature     []byte
	ReferralAddr  common.Address
	ExpectedState *big.Int
	Recipient     common.Address
	Refunder      common.Address
}

// PackInteractWith wraps an exchange payload in the gateway's generic
// dispatch entry point.
func PackInteractWith(module string, payload []byte) ([]byte, error) {
	data, err := GatewayABI.Pack("interactWith", module, payload)
	if err != nil {
		return nil, fmt.Errorf("pack interactWith: %w", err)
	}
	return data, nil
}

// PackSettleOrder packs the ERC-721 exchange settleOrder call.
func PackSettleOrder(info SettleInfo, settlePrice *big.Int) ([]byte, error) {
	data, err := OrderExchangeABI.Pack("settleOrder", info, settlePrice)
	if err != nil {
		return nil, fmt.Errorf("pack settleOrder: %w", err)
	}
	return data, nil
}

// PackSettleOrder1155 packs the ERC-1155 exchange settleOrder call. Quantity
// and total price are the requested fill, not the order's own values.
func PackSettleOrder1155(info SettleInfo, quantity, settlePrice *big.Int) ([]byte, error) {
	data, err := ERC1155ExchangeABI.Pack("settleOrder", info, quantity, settlePrice)
	if err != nil {
		return nil, fmt.Errorf("pack settleOrder: %w", err)
	}
	return data, nil
}

// PackCancelOrder packs a cancelOrder call for either exchange sub-module;
// both share the same shape.
func PackCancelOrder(encodedOrder []byte) ([]byte, error) {
	data, err := OrderExchangeABI.Pack("cancelOrder", encodedOrder)
	if err != nil {
		return nil, fmt.Errorf("pack cancelOrder: %w", err)
	}
	return data, nil
}
