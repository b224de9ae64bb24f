// Package wallet implements the key-custody core: account management, the
// lock/unlock state machine, and transfer/swap signing.
package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"github.com/prismwallet/prism/internal/common"
	"github.com/prismwallet/prism/internal/crypto"
	"github.com/prismwallet/prism/internal/keys"
	"github.com/prismwallet/prism/internal/log"
	"github.com/prismwallet/prism/internal/model"
	"github.com/prismwallet/prism/internal/storage"
)

// ChainClient is the RPC collaborator the session signs and submits through.
type ChainClient interface {
	Network() model.Network
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
	GetTokenBalances(ctx context.Context, owner solana.PublicKey) ([]model.TokenBalance, error)
	GetRecentTransactions(ctx context.Context, pubkey solana.PublicKey, limit int) ([]model.TransactionInfo, error)
	EstimateFee(ctx context.Context, from, to solana.PublicKey) (uint64, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) (solana.Signature, error)
}

// SwapAggregator is the external route/quote collaborator.
type SwapAggregator interface {
	GetRoute(ctx context.Context, inputMint, outputMint string, atomicAmount uint64, slippageBps int) (json.RawMessage, error)
	BuildSwapTransaction(ctx context.Context, route json.RawMessage, userPublicKey string) (string, error)
}

// ClientFactory resolves a ChainClient for a cluster.
type ClientFactory func(network model.Network) ChainClient

// Options tune a Session. Zero values select production defaults.
type Options struct {
	CipherParams    crypto.Params
	RefreshInterval time.Duration
	RecentTxLimit   int
}

func (o Options) withDefaults() Options {
	if o.CipherParams == (crypto.Params{}) {
		o.CipherParams = crypto.DefaultParams()
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = 20 * time.Second
	}
	if o.RecentTxLimit <= 0 {
		o.RecentTxLimit = 20
	}
	return o
}

// Session orchestrates account custody for one wallet. It holds the only
// in-memory copy of the session password; the password is never persisted
// or logged.
type Session struct {
	mu       sync.Mutex
	states   *storage.StateStore
	state    model.WalletState
	password []byte // nil while locked
	clients  ClientFactory
	agg      SwapAggregator
	opts     Options
	locks    accountLocks
	logger   zerolog.Logger

	// Observable state for the UI shell, refreshed best-effort.
	balanceLamports uint64
	tokenBalances   []model.TokenBalance
	recentTxs       []model.TransactionInfo
}

// NewSession loads persisted state and builds a session. A state persisted
// as unlocked is forced back to locked: the session password lives only in
// memory and does not survive a restart.
func NewSession(states *storage.StateStore, clients ClientFactory, agg SwapAggregator, opts Options) (*Session, error) {
	state, err := states.Load()
	if err != nil {
		return nil, err
	}

	if !state.IsLocked && len(state.Accounts) > 0 {
		state.IsLocked = true
		if err := states.Save(state); err != nil {
			return nil, err
		}
	}

	return &Session{
		states:  states,
		state:   state,
		clients: clients,
		agg:     agg,
		opts:    opts.withDefaults(),
		logger:  log.Wallet,
	}, nil
}

// State returns a copy of the current wallet state.
func (s *Session) State() model.WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentAccount returns the selected account, if any.
func (s *Session) CurrentAccount() (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentAccount()
}

// CreateWallet generates a mnemonic, derives the account-0 keypair, encrypts
// it under password, and adds the account unlocked. Returns the mnemonic for
// the user to back up; it is not stored.
func (s *Session) CreateWallet(ctx context.Context, password []byte, name string) (string, error) {
	mnemonic, err := keys.GenerateMnemonic()
	if err != nil {
		return "", err
	}
	pub, priv, err := keys.DeriveKeypair(mnemonic)
	if err != nil {
		return "", err
	}
	defer clear(priv)

	if err := s.addAccount(ctx, pub, priv, password, name); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// ImportWallet derives the account-0 keypair from an existing mnemonic and
// adds it as a new account, unlocked.
func (s *Session) ImportWallet(ctx context.Context, mnemonic string, password []byte, name string) (solana.PublicKey, error) {
	pub, priv, err := keys.DeriveKeypair(strings.TrimSpace(mnemonic))
	if err != nil {
		return solana.PublicKey{}, err
	}
	defer clear(priv)

	if err := s.addAccount(ctx, pub, priv, password, name); err != nil {
		return solana.PublicKey{}, err
	}
	return pub, nil
}

// ImportPrivateKey adds an account from a raw secret key (JSON array, hex,
// or base58).
func (s *Session) ImportPrivateKey(ctx context.Context, secretInput string, password []byte, name string) (solana.PublicKey, error) {
	pub, priv, err := keys.ImportRawSecret(secretInput)
	if err != nil {
		return solana.PublicKey{}, err
	}
	defer clear(priv)

	if err := s.addAccount(ctx, pub, priv, password, name); err != nil {
		return solana.PublicKey{}, err
	}
	return pub, nil
}

// addAccount encrypts priv under password and appends a new account,
// switching the session to it, unlocked. All accounts in one wallet share
// one password: adding an account verifies the supplied password against
// the existing ciphertexts first.
func (s *Session) addAccount(_ context.Context, pub solana.PublicKey, priv solana.PrivateKey, password []byte, name string) error {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return ErrNameRequired
	}
	if len(password) == 0 {
		return ErrPasswordRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Accounts) > 0 {
		existing, err := s.decryptAccount(s.state.Accounts[0], password)
		if err != nil {
			return err
		}
		clear(existing)
	}
	if s.state.HasPublicKey(pub.String()) {
		return ErrDuplicateAccount
	}

	blob, err := crypto.Encrypt(priv, password, s.opts.CipherParams)
	if err != nil {
		return fmt.Errorf("failed to encrypt private key: %w", err)
	}

	account := model.Account{
		ID:                  uuid.NewString(),
		Name:                trimmedName,
		PublicKey:           pub.String(),
		EncryptedPrivateKey: blob,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.persist(s.state.AddAccount(account)); err != nil {
		return err
	}
	s.setPassword(password)
	s.logger.Info().Str("account", account.PublicKey).Msg("account added")
	return nil
}

// UnlockWallet verifies password against the first account's ciphertext and
// unlocks the session. On failure the session stays locked and the error is
// uniformly ErrIncorrectPassword.
func (s *Session) UnlockWallet(_ context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Accounts) == 0 {
		return ErrNoAccount
	}

	priv, err := s.decryptAccount(s.state.Accounts[0], password)
	if err != nil {
		return err
	}
	clear(priv)

	next := s.state.Clone()
	next.IsLocked = false
	if err := s.persist(next); err != nil {
		return err
	}
	s.setPassword(password)
	s.logger.Info().Msg("wallet unlocked")
	return nil
}

// LockWallet clears the session password and locks. No precondition.
func (s *Session) LockWallet(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearPassword()
	next := s.state.Clone()
	next.IsLocked = true
	if err := s.persist(next); err != nil {
		return err
	}
	s.logger.Info().Msg("wallet locked")
	return nil
}

// ExportSecretKey reveals the current account's secret key, base58-encoded.
// The supplied password is always re-verified against the ciphertext; the
// cached session password is never trusted alone for the reveal.
func (s *Session) ExportSecretKey(password []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsLocked {
		return "", ErrWalletLocked
	}
	account, ok := s.state.CurrentAccount()
	if !ok {
		return "", ErrNoAccount
	}

	priv, err := s.decryptAccount(account, password)
	if err != nil {
		return "", err
	}
	defer clear(priv)

	return base58.Encode(priv), nil
}

// RenameAccount updates an account's display name. A whitespace-only name or
// an unknown id is a no-op.
func (s *Session) RenameAccount(_ context.Context, id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(s.state.RenameAccount(id, newName))
}

// RemoveAccount deletes an account. Removing the last account locks the
// wallet and drops the session password.
func (s *Session) RemoveAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.RemoveAccount(id)
	if err := s.persist(next); err != nil {
		return err
	}
	if len(next.Accounts) == 0 {
		s.clearPassword()
	}
	return nil
}

// SelectAccount switches the current account and refreshes observable state
// best-effort.
func (s *Session) SelectAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.persist(s.state.SelectAccount(id)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.refreshBestEffort(ctx)
	return nil
}

// SwitchNetwork changes the active cluster.
func (s *Session) SwitchNetwork(ctx context.Context, network model.Network) error {
	if !network.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownNetwork, network)
	}

	s.mu.Lock()
	if err := s.persist(s.state.SwitchNetwork(network)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.refreshBestEffort(ctx)
	return nil
}

// RequestAirdrop asks the devnet faucet for SOL. Fails fast on mainnet.
func (s *Session) RequestAirdrop(ctx context.Context, amount string) (string, error) {
	lamports, err := common.SOLToLamports(amount)
	if err != nil || lamports == 0 {
		return "", ErrAmountInvalid
	}

	s.mu.Lock()
	network := s.state.Network
	account, ok := s.state.CurrentAccount()
	s.mu.Unlock()

	if network != model.NetworkDevnet {
		return "", ErrAirdropMainnet
	}
	if !ok {
		return "", ErrNoAccount
	}

	pub, err := solana.PublicKeyFromBase58(account.PublicKey)
	if err != nil {
		return "", fmt.Errorf("invalid account address: %w", err)
	}

	sig, err := s.clients(network).RequestAirdrop(ctx, pub, lamports)
	if err != nil {
		return "", fmt.Errorf("airdrop failed: %w", err)
	}

	s.refreshBestEffort(ctx)
	return sig.String(), nil
}

// EstimateFee estimates the transfer fee from the current account to an
// address, in lamports.
func (s *Session) EstimateFee(ctx context.Context, toAddress string) (uint64, error) {
	s.mu.Lock()
	network := s.state.Network
	account, ok := s.state.CurrentAccount()
	s.mu.Unlock()

	if !ok {
		return 0, ErrNoAccount
	}
	from, err := solana.PublicKeyFromBase58(account.PublicKey)
	if err != nil {
		return 0, fmt.Errorf("invalid account address: %w", err)
	}
	to, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return 0, fmt.Errorf("invalid recipient address: %w", err)
	}

	return s.clients(network).EstimateFee(ctx, from, to)
}

// Refresh reloads balance, token balances, and recent transactions for the
// current account. A locked wallet or missing account is a quiet no-op.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	locked := s.state.IsLocked
	network := s.state.Network
	account, ok := s.state.CurrentAccount()
	s.mu.Unlock()

	if locked || !ok {
		return nil
	}

	pub, err := solana.PublicKeyFromBase58(account.PublicKey)
	if err != nil {
		return fmt.Errorf("invalid account address: %w", err)
	}

	chain := s.clients(network)
	lamports, err := chain.GetBalance(ctx, pub)
	if err != nil {
		return err
	}
	tokens, err := chain.GetTokenBalances(ctx, pub)
	if err != nil {
		return err
	}
	recent, err := chain.GetRecentTransactions(ctx, pub, s.opts.RecentTxLimit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.balanceLamports = lamports
	s.tokenBalances = tokens
	s.recentTxs = recent
	s.mu.Unlock()
	return nil
}

// StartRefresh drives periodic best-effort refresh until ctx is canceled.
func (s *Session) StartRefresh(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.opts.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refreshBestEffort(ctx)
			}
		}
	}()
}

// Balance returns the cached SOL balance (decimal string) and token holdings.
func (s *Session) Balance() (string, []model.TokenBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := make([]model.TokenBalance, len(s.tokenBalances))
	copy(tokens, s.tokenBalances)
	return common.LamportsToSOL(s.balanceLamports), tokens
}

// RecentTransactions returns the cached transaction history.
func (s *Session) RecentTransactions() []model.TransactionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TransactionInfo, len(s.recentTxs))
	copy(out, s.recentTxs)
	return out
}

// refreshBestEffort logs refresh failures instead of surfacing them; a
// failed refresh never invalidates an already-returned signature.
func (s *Session) refreshBestEffort(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("refresh failed")
	}
}

// decryptAccount decrypts an account's secret and verifies it matches the
// stored public key. Every failure mode maps to ErrIncorrectPassword; no
// distinction between malformed ciphertext and wrong password is surfaced.
func (s *Session) decryptAccount(account model.Account, password []byte) (solana.PrivateKey, error) {
	plaintext, err := crypto.Decrypt(account.EncryptedPrivateKey, password)
	if err != nil {
		return nil, ErrIncorrectPassword
	}
	defer clear(plaintext)

	pub, priv, err := keys.KeypairFromBytes(plaintext)
	if err != nil {
		return nil, ErrIncorrectPassword
	}
	if pub.String() != account.PublicKey {
		clear(priv)
		return nil, ErrIncorrectPassword
	}
	return priv, nil
}

// persist saves next and only then makes it the in-memory state, so a failed
// write never leaves memory ahead of storage.
func (s *Session) persist(next model.WalletState) error {
	if err := s.states.Save(next); err != nil {
		return fmt.Errorf("failed to persist wallet state: %w", err)
	}
	s.state = next
	return nil
}

func (s *Session) setPassword(password []byte) {
	s.clearPassword()
	s.password = make([]byte, len(password))
	copy(s.password, password)
}

func (s *Session) clearPassword() {
	clear(s.password)
	s.password = nil
}

// sessionPassword returns a copy of the in-memory password for a signing
// operation. Caller must zero it after use.
func (s *Session) sessionPassword() ([]byte, error) {
	if s.state.IsLocked || s.password == nil {
		return nil, ErrWalletLocked
	}
	out := make([]byte, len(s.password))
	copy(out, s.password)
	return out, nil
}
