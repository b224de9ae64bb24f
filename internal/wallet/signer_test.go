package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismwallet/prism/internal/model"
)

func TestSendTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	recipient := solana.NewWallet().PublicKey().String()

	sig, err := env.session.SendTransfer(context.Background(), recipient, "0.5")
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	require.Len(t, env.chain.submitted, 1)
	tx := env.chain.submitted[0]
	require.Len(t, tx.Signatures, 1)
	assert.NotEqual(t, solana.Signature{}, tx.Signatures[0])
}

func TestSendTransferLockedMakesNoRPCCalls(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.NoError(t, env.session.LockWallet(context.Background()))
	before := env.chain.count()

	_, err := env.session.SendTransfer(context.Background(), solana.NewWallet().PublicKey().String(), "1")
	assert.ErrorIs(t, err, ErrWalletLocked)
	assert.Equal(t, before, env.chain.count())
}

func TestSendTransferRejectsBadAmounts(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	before := env.chain.count()
	recipient := solana.NewWallet().PublicKey().String()

	for _, amount := range []string{"0", "-1", "", "abc", "1.2.3"} {
		_, err := env.session.SendTransfer(context.Background(), recipient, amount)
		assert.ErrorIs(t, err, ErrAmountInvalid, "amount %q", amount)
	}
	assert.Equal(t, before, env.chain.count())
}

func TestSendTransferRejectsBadRecipient(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	before := env.chain.count()

	_, err := env.session.SendTransfer(context.Background(), "not-an-address", "1")
	assert.Error(t, err)
	assert.Equal(t, before, env.chain.count())
}

func TestSwapMainnetOnly(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.Equal(t, model.NetworkDevnet, env.session.State().Network)

	_, err := env.session.Swap(context.Background(), usdcMint, solMint, "1", 6, 0)
	assert.ErrorIs(t, err, ErrSwapUnavailable)
	assert.Zero(t, env.agg.calls())
}

func TestSwapHappyPath(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.NoError(t, env.session.SwitchNetwork(context.Background(), model.NetworkMainnet))

	sig, err := env.session.Swap(context.Background(), solMint, usdcMint, "0.25", 9, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
	assert.Equal(t, 2, env.agg.calls())
	require.Len(t, env.chain.submitted, 1)
	assert.NotEqual(t, solana.Signature{}, env.chain.submitted[0].Signatures[0])
}

func TestSwapLockedMakesNoAggregatorCalls(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.NoError(t, env.session.SwitchNetwork(context.Background(), model.NetworkMainnet))
	require.NoError(t, env.session.LockWallet(context.Background()))

	_, err := env.session.Swap(context.Background(), solMint, usdcMint, "1", 9, 0)
	assert.ErrorIs(t, err, ErrWalletLocked)
	assert.Zero(t, env.agg.calls())
}

func TestSwapRejectsBadDecimals(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.NoError(t, env.session.SwitchNetwork(context.Background(), model.NetworkMainnet))

	// Decimals come straight from the request body and must fail cleanly
	// before any aggregator work.
	for _, decimals := range []int{-1, 20} {
		_, err := env.session.Swap(context.Background(), solMint, usdcMint, "1.5", decimals, 0)
		assert.ErrorIs(t, err, ErrAmountInvalid, "decimals %d", decimals)
	}
	assert.Zero(t, env.agg.calls())
}

func TestSwapRouteErrorClassified(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.NoError(t, env.session.SwitchNetwork(context.Background(), model.NetworkMainnet))
	env.agg.routeErr = errors.New("COULD_NOT_FIND_ANY_ROUTE")

	_, err := env.session.Swap(context.Background(), solMint, usdcMint, "1", 9, 0)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestSwapSubmitErrorClassified(t *testing.T) {
	env := newTestEnv(t)
	env.createWallet(t)
	require.NoError(t, env.session.SwitchNetwork(context.Background(), model.NetworkMainnet))
	env.chain.submitErr = errors.New("Transaction failed: custom program error: slippage tolerance exceeded")

	_, err := env.session.Swap(context.Background(), solMint, usdcMint, "1", 9, 0)
	assert.ErrorIs(t, err, ErrSlippageExceeded)
}

func TestClassifySwapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"insufficient", errors.New("Insufficient balance in token account"), ErrInsufficientFunds},
		{"slippage", errors.New("slippage tolerance exceeded"), ErrSlippageExceeded},
		{"no route", errors.New("no ROUTE found"), ErrNoRoute},
		{"could not find", errors.New("could not find quote"), ErrNoRoute},
		{"nil", nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifySwapError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestClassifySwapErrorGeneric(t *testing.T) {
	got := classifySwapError(errors.New("connection refused"))
	assert.NotErrorIs(t, got, ErrInsufficientFunds)
	assert.NotErrorIs(t, got, ErrSlippageExceeded)
	assert.NotErrorIs(t, got, ErrNoRoute)
	assert.Contains(t, got.Error(), "connection refused")
}

const (
	solMint  = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)
