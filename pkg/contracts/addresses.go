package contracts

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/roninmarket/marketbot/pkg/config"
)

// Exchange sub-module names understood by the market gateway dispatch.
const (
	ModuleOrderExchange   = "ORDER_EXCHANGE"
	ModuleERC1155Exchange = "ERC1155_EXCHANGE"
)

// ReferralAddress is carried in every settle-info tuple.
const ReferralAddress = "0xa7d8ca624656922c633732fa2f327f504678d132"

// Ronin mainnet defaults. All of them can be overridden through config for
// testnets and forks.
const (
	defaultGateway         = "0xfff9ce5f71ca6178d3beecedb61e7eff1602950e"
	defaultAxie            = "0x32950db2a7164ae833121501c797d79e7b79d74c"
	defaultMaterial        = "0xa96660f0e4a3e9bc7388925d245a6d4d79e21259"
	defaultWETH            = "0xc99a6a985ed2cac1ef41640596c5a5f9f4e19ef5"
	defaultUSDC            = "0x0b7007c13325c48911f73a2dad5fa5dcbf808adc"
	defaultBatchTransfer   = "0x2368dfed532842db89b470fde9fd584d48d4f644"
	defaultERC1155Exchange = "0xb36c9027ed4353fdd7a59d8c40e0df5221a3764f"
)

// Registry resolves the contract addresses one invocation operates against.
type Registry struct {
	Gateway         common.Address
	Axie            common.Address
	Material        common.Address
	WETH            common.Address
	USDC            common.Address
	BatchTransfer   common.Address
	ERC1155Exchange common.Address
	Referral        common.Address
}

// DefaultRegistry returns the Ronin mainnet registry.
func DefaultRegistry() Registry {
	return Registry{
		Gateway:         common.HexToAddress(defaultGateway),
		Axie:            common.HexToAddress(defaultAxie),
		Material:        common.HexToAddress(defaultMaterial),
		WETH:            common.HexToAddress(defaultWETH),
		USDC:            common.HexToAddress(defaultUSDC),
		BatchTransfer:   common.HexToAddress(defaultBatchTransfer),
		ERC1155Exchange: common.HexToAddress(defaultERC1155Exchange),
		Referral:        common.HexToAddress(ReferralAddress),
	}
}

// RegistryFromConfig returns the default registry with any configured
// overrides applied.
func RegistryFromConfig(cfg *config.Config) Registry {
	r := DefaultRegistry()
	if cfg.GatewayAddress != "" {
		r.Gateway = common.HexToAddress(cfg.GatewayAddress)
	}
	if cfg.AxieAddress != "" {
		r.Axie = common.HexToAddress(cfg.AxieAddress)
	}
	if cfg.MaterialAddress != "" {
		r.Material = common.HexToAddress(cfg.MaterialAddress)
	}
	if cfg.WETHAddress != "" {
		r.WETH = common.HexToAddress(cfg.WETHAddress)
	}
	if cfg.BatchTransferAddress != "" {
		r.BatchTransfer = common.HexToAddress(cfg.BatchTransferAddress)
	}
	if cfg.ERC1155Exchange != "" {
		r.ERC1155Exchange = common.HexToAddress(cfg.ERC1155Exchange)
	}
	return r
}
