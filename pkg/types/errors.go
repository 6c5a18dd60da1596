package types

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Sentinel errors for local validation and pre-flight failures. These never
// reach the network and are returned synchronously.
var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidDuration = errors.New("invalid auction duration")

	// ErrNoActiveOrder means the settlement or cancellation target does not
	// exist on the remote book.
	ErrNoActiveOrder = errors.New("no active order")

	// ErrInsufficientLiquidity means price discovery could not satisfy the
	// requested quantity across all valid orders.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrRemoteUnavailable wraps network or HTTP failures talking to the
	// order book.
	ErrRemoteUnavailable = errors.New("order book unavailable")
)

// RemoteRejectedError is a structured error returned by the order book
// (a GraphQL errors array). Some messages are policy-classified as benign.
type RemoteRejectedError struct {
	Message string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("order book rejected request: %s", e.Message)
}

// benignRejections are order-book error messages that callers treat as
// success-equivalent (the desired end state already holds).
var benignRejections = []string{
	"already listed",
	"order already exists",
}

// IsBenignRejection reports whether err is a remote rejection whose message
// indicates the requested state already holds.
func IsBenignRejection(err error) bool {
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		return false
	}
	msg := strings.ToLower(rejected.Message)
	for _, benign := range benignRejections {
		if strings.Contains(msg, benign) {
			return true
		}
	}
	return false
}

// InsufficientBalanceError means the payment-token balance cannot cover the
// total cost of a settlement. Detected before any transaction is submitted.
type InsufficientBalanceError struct {
	Token string
	Need  *big.Int
	Have  *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: need %s, have %s", e.Token, e.Need, e.Have)
}
