package testutil

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// MockProvider is an in-memory chain backend. Contract reads are answered by
// CallFn; everything else follows simple canned behavior.
type MockProvider struct {
	mu sync.Mutex

	// CallFn answers eth_call requests. Nil means every call errors.
	CallFn func(msg ethereum.CallMsg) ([]byte, error)

	// NativeBalance answers BalanceAt. Nil means zero.
	NativeBalance *big.Int

	// GasEstimate is returned by EstimateGas. EstimateErr overrides it.
	GasEstimate uint64
	EstimateErr error

	// SendErr makes SendTransaction fail.
	SendErr error

	// ReceiptStatus is the status of mined receipts. NeverMine makes
	// TransactionReceipt always report not found.
	ReceiptStatus uint64
	NeverMine     bool

	nonce uint64
	sent  []*ethtypes.Transaction
}

// NewMockProvider returns a provider that mines every transaction
// successfully with a fixed gas estimate.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		GasEstimate:   100_000,
		ReceiptStatus: ethtypes.ReceiptStatusSuccessful,
	}
}

func (p *MockProvider) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	p.mu.Lock()
	fn := p.CallFn
	p.mu.Unlock()
	if fn == nil {
		return nil, ethereum.NotFound
	}
	return fn(msg)
}

func (p *MockProvider) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NativeBalance == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(p.NativeBalance), nil
}

func (p *MockProvider) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nonce, nil
}

func (p *MockProvider) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.EstimateErr != nil {
		return 0, p.EstimateErr
	}
	return p.GasEstimate, nil
}

func (p *MockProvider) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SendErr != nil {
		return p.SendErr
	}
	p.sent = append(p.sent, tx)
	p.nonce++
	return nil
}

func (p *MockProvider) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NeverMine {
		return nil, ethereum.NotFound
	}
	for _, tx := range p.sent {
		if tx.Hash() == txHash {
			return &ethtypes.Receipt{
				Status: p.ReceiptStatus,
				TxHash: txHash,
			}, nil
		}
	}
	return nil, ethereum.NotFound
}

// Sent returns the transactions submitted so far.
func (p *MockProvider) Sent() []*ethtypes.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*ethtypes.Transaction, len(p.sent))
	copy(out, p.sent)
	return out
}

// Uint256Result ABI-encodes a single uint256 return value.
func Uint256Result(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

// BoolResult ABI-encodes a single bool return value.
func BoolResult(v bool) []byte {
	out := make([]byte, 32)
	if v {
		out[31] = 1
	}
	return out
}
