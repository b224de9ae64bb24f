package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/prismwallet/prism/internal/common"
	"github.com/prismwallet/prism/internal/model"
)

// DefaultSlippageBps is the swap slippage tolerance used when the caller
// does not supply one.
const DefaultSlippageBps = 50

// accountLocks serializes decrypt-sign-submit sequences per account id, so
// two overlapping signing calls on one account cannot race on stale balance
// reads.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// acquire locks the per-account mutex and returns its release func.
func (l *accountLocks) acquire(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// SendTransfer signs and submits a native SOL transfer from the current
// account and returns the confirmed transaction signature. Amount is a
// positive SOL decimal string.
func (s *Session) SendTransfer(ctx context.Context, toAddress, amount string) (string, error) {
	lamports, err := common.SOLToLamports(amount)
	if err != nil || lamports == 0 {
		return "", ErrAmountInvalid
	}

	s.mu.Lock()
	password, err := s.sessionPassword()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	account, ok := s.state.CurrentAccount()
	network := s.state.Network
	s.mu.Unlock()
	defer clear(password)

	if !ok {
		return "", ErrNoAccount
	}

	toPub, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	release := s.locks.acquire(account.ID)
	defer release()

	priv, err := s.decryptAccount(account, password)
	if err != nil {
		return "", err
	}
	defer clear(priv)
	fromPub := priv.PublicKey()

	chain := s.clients(network)
	blockhash, err := chain.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("transfer failed: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, fromPub, toPub).Build(),
		},
		blockhash,
		solana.TransactionPayer(fromPub),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}

	if err := signWith(tx, priv); err != nil {
		return "", err
	}

	sig, err := chain.SubmitAndConfirm(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("transfer failed: %w", err)
	}

	s.logger.Info().Str("signature", sig.String()).Msg("transfer confirmed")
	s.refreshBestEffort(ctx)
	return sig.String(), nil
}

// Swap exchanges amount of inputMint for outputMint through the aggregator
// and returns the confirmed transaction signature. Amount is a decimal
// string in the input token's UI units, converted at inputDecimals. Swap is
// only available on mainnet; on any other network it fails before any
// external call.
func (s *Session) Swap(ctx context.Context, inputMint, outputMint, amount string, inputDecimals, slippageBps int) (string, error) {
	if slippageBps <= 0 {
		slippageBps = DefaultSlippageBps
	}
	atomicAmount, err := common.ParseUnits(amount, inputDecimals)
	if err != nil || atomicAmount == 0 {
		return "", ErrAmountInvalid
	}

	s.mu.Lock()
	password, err := s.sessionPassword()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	account, ok := s.state.CurrentAccount()
	network := s.state.Network
	s.mu.Unlock()
	defer clear(password)

	if !ok {
		return "", ErrNoAccount
	}
	if network != model.NetworkMainnet {
		return "", ErrSwapUnavailable
	}

	release := s.locks.acquire(account.ID)
	defer release()

	priv, err := s.decryptAccount(account, password)
	if err != nil {
		return "", err
	}
	defer clear(priv)

	route, err := s.agg.GetRoute(ctx, inputMint, outputMint, atomicAmount, slippageBps)
	if err != nil {
		return "", classifySwapError(err)
	}

	serialized, err := s.agg.BuildSwapTransaction(ctx, route, account.PublicKey)
	if err != nil {
		return "", classifySwapError(err)
	}

	tx, err := solana.TransactionFromBase64(serialized)
	if err != nil {
		return "", fmt.Errorf("failed to decode swap transaction: %w", err)
	}

	// The account is the single signer of the prebuilt transaction.
	if err := signWith(tx, priv); err != nil {
		return "", err
	}

	sig, err := s.clients(network).SubmitAndConfirm(ctx, tx)
	if err != nil {
		return "", classifySwapError(err)
	}

	s.logger.Info().Str("signature", sig.String()).Msg("swap confirmed")
	s.refreshBestEffort(ctx)
	return sig.String(), nil
}

// signWith signs tx with a single private key.
func signWith(tx *solana.Transaction, priv solana.PrivateKey) error {
	signerPub := priv.PublicKey()
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(signerPub) {
			return &priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}
