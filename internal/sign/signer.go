// Package sign binds orders to the MarketGateway EIP-712 domain and holds
// the signer abstraction the executors depend on.
package sign

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signer is the narrow collaborator the engine needs from key custody:
// an address, typed-data signatures, and transaction signatures.
type Signer interface {
	Address() common.Address
	SignTypedData(data apitypes.TypedData) (string, error)
	SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// PrivateKeySigner signs with an in-process secp256k1 key.
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewPrivateKeySigner parses a hex-encoded private key, with or without a
// 0x prefix.
func NewPrivateKeySigner(hexKey string) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the signer's account address.
func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignTypedData produces the 0x-prefixed 65-byte EIP-712 signature over the
// typed data, with the recovery id shifted to 27/28 as the verifier expects.
func (s *PrivateKeySigner) SignTypedData(data apitypes.TypedData) (string, error) {
	digest, err := TypedDataDigest(data)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return "", fmt.Errorf("sign typed data: %w", err)
	}
	sig[64] += 27

	return hexutil.Encode(sig), nil
}

// SignTx signs a transaction for the given chain.
func (s *PrivateKeySigner) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	signed, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}

// TypedDataDigest computes the EIP-712 digest
// keccak256(0x1901 ‖ domainSeparator ‖ structHash).
func TypedDataDigest(data apitypes.TypedData) (common.Hash, error) {
	domainSeparator, err := data.HashStruct("EIP712Domain", data.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash domain: %w", err)
	}

	structHash, err := data.HashStruct(data.PrimaryType, data.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash message: %w", err)
	}

	raw := make([]byte, 0, 2+len(domainSeparator)+len(structHash))
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, structHash...)

	return crypto.Keccak256Hash(raw), nil
}

// Domain returns the MarketGateway signing domain for a chain and gateway
// contract. The same domain authorizes both order variants.
func Domain(chainID int64, gateway common.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              "MarketGateway",
		Version:           "1",
		ChainId:           math.NewHexOrDecimal256(chainID),
		VerifyingContract: gateway.Hex(),
	}
}
