package wallet

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition and validation failures. All are checked before any
// cryptographic or network work.
var (
	ErrWalletLocked      = errors.New("wallet is locked")
	ErrNoAccount         = errors.New("no account selected")
	ErrPasswordRequired  = errors.New("password must not be empty")
	ErrNameRequired      = errors.New("account name must not be empty")
	ErrAmountInvalid     = errors.New("amount must be a positive number")
	ErrDuplicateAccount  = errors.New("account with this public key already exists")
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrSwapUnavailable   = errors.New("swap unavailable on this network")
	ErrAirdropMainnet    = errors.New("airdrop available on devnet only")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Swap failure taxonomy, derived from the aggregator/RPC error text. Coarse
// categories are enough for the UI to pick a message.
var (
	ErrInsufficientFunds = errors.New("insufficient balance for swap")
	ErrSlippageExceeded  = errors.New("swap failed due to slippage")
	ErrNoRoute           = errors.New("no route for this token pair")
)

// classifySwapError maps an underlying aggregator or RPC error onto the swap
// taxonomy, keeping the original message as cause.
func classifySwapError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient"):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	case strings.Contains(msg, "slippage"):
		return fmt.Errorf("%w: %v", ErrSlippageExceeded, err)
	case strings.Contains(msg, "route"), strings.Contains(msg, "could not find"):
		return fmt.Errorf("%w: %v", ErrNoRoute, err)
	default:
		return fmt.Errorf("swap failed: %w", err)
	}
}
