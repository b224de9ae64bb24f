package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/prismwallet/prism/internal/common"
	"github.com/prismwallet/prism/internal/model"
)

const (
	// fallbackFeeLamports is used when fee estimation is unavailable
	// (5000 lamports is the flat per-signature fee).
	fallbackFeeLamports = 5000

	confirmPollInterval = 2 * time.Second

	// defaultConfirmTimeout bounds the confirmation wait when the caller
	// does not configure one.
	defaultConfirmTimeout = 90 * time.Second
)

// SolanaClient is a client for working with Solana RPC on one cluster.
type SolanaClient struct {
	rpcClient      *rpc.Client
	rpcURL         string
	network        model.Network
	confirmTimeout time.Duration
}

// NewSolanaClient creates a client for the given cluster endpoint.
// A non-positive confirmTimeout selects the default.
func NewSolanaClient(rpcURL string, network model.Network, confirmTimeout time.Duration) *SolanaClient {
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	return &SolanaClient{
		rpcClient:      rpc.New(rpcURL),
		rpcURL:         rpcURL,
		network:        network,
		confirmTimeout: confirmTimeout,
	}
}

// Network returns the cluster this client talks to.
func (c *SolanaClient) Network() model.Network {
	return c.network
}

// GetBalance gets the SOL balance in lamports.
func (c *SolanaClient) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Value, nil
}

// parsedTokenAccount mirrors the jsonParsed token-account layout from RPC.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				Amount   string `json:"amount"`
				Decimals int    `json:"decimals"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// GetTokenBalances lists the owner's non-empty SPL token holdings.
func (c *SolanaClient) GetTokenBalances(ctx context.Context, owner solana.PublicKey) ([]model.TokenBalance, error) {
	tokenProgram := solana.TokenProgramID
	res, err := c.rpcClient.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &tokenProgram},
		&rpc.GetTokenAccountsOpts{
			Encoding:   solana.EncodingJSONParsed,
			Commitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		if IsNotFoundError(err) {
			return []model.TokenBalance{}, nil
		}
		return nil, fmt.Errorf("failed to get token accounts: %w", err)
	}

	balances := make([]model.TokenBalance, 0, len(res.Value))
	for _, acct := range res.Value {
		var parsed parsedTokenAccount
		if err := json.Unmarshal(acct.Account.Data.GetRawJSON(), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse token account: %w", err)
		}

		amount, err := strconv.ParseUint(parsed.Parsed.Info.TokenAmount.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token amount: %w", err)
		}
		if amount == 0 {
			continue
		}

		balances = append(balances, model.TokenBalance{
			Mint:     parsed.Parsed.Info.Mint,
			Amount:   common.FormatUnits(amount, parsed.Parsed.Info.TokenAmount.Decimals),
			Decimals: parsed.Parsed.Info.TokenAmount.Decimals,
		})
	}
	return balances, nil
}

// GetRecentTransactions lists the newest transaction signatures for an
// address with their confirmation status.
func (c *SolanaClient) GetRecentTransactions(ctx context.Context, pubkey solana.PublicKey, limit int) ([]model.TransactionInfo, error) {
	sigs, err := c.rpcClient.GetSignaturesForAddressWithOpts(
		ctx,
		pubkey,
		&rpc.GetSignaturesForAddressOpts{
			Limit:      &limit,
			Commitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get signatures: %w", err)
	}

	transactions := make([]model.TransactionInfo, 0, len(sigs))
	for _, sig := range sigs {
		timestamp := time.Now()
		if sig.BlockTime != nil {
			timestamp = sig.BlockTime.Time()
		}

		status := model.TransactionStatusPending
		switch {
		case sig.Err != nil:
			status = model.TransactionStatusFailed
		case sig.ConfirmationStatus == rpc.ConfirmationStatusConfirmed,
			sig.ConfirmationStatus == rpc.ConfirmationStatusFinalized:
			status = model.TransactionStatusConfirmed
		}

		transactions = append(transactions, model.TransactionInfo{
			Signature: sig.Signature.String(),
			Slot:      sig.Slot,
			Timestamp: timestamp,
			Status:    status,
		})
	}
	return transactions, nil
}

// EstimateFee estimates the fee in lamports for a simple transfer between
// two addresses. Falls back to the flat per-signature fee when the RPC
// cannot answer.
func (c *SolanaClient) EstimateFee(ctx context.Context, from, to solana.PublicKey) (uint64, error) {
	blockhash, err := c.LatestBlockhash(ctx)
	if err != nil {
		return fallbackFeeLamports, nil
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return fallbackFeeLamports, nil
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return fallbackFeeLamports, nil
	}

	fee, err := c.rpcClient.GetFeeForMessage(ctx, base64.StdEncoding.EncodeToString(msg), rpc.CommitmentConfirmed)
	if err != nil || fee.Value == nil {
		return fallbackFeeLamports, nil
	}
	return *fee.Value, nil
}

// LatestBlockhash fetches a recent blockhash for transaction assembly.
func (c *SolanaClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return recent.Value.Blockhash, nil
}

// SubmitAndConfirm sends a signed transaction and polls until it reaches
// confirmed commitment or ctx expires. The submission is not retracted when
// the caller stops waiting.
func (c *SolanaClient) SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := c.awaitConfirmation(ctx, sig); err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// RequestAirdrop requests lamports from the devnet faucet and waits for the
// airdrop transaction to confirm.
func (c *SolanaClient) RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpcClient.RequestAirdrop(ctx, pubkey, lamports, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to request airdrop: %w", err)
	}
	if err := c.awaitConfirmation(ctx, sig); err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// awaitConfirmation polls signature status until confirmed/finalized or the
// confirm timeout expires.
func (c *SolanaClient) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation timed out for %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}

		statuses, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			// Transient RPC failures are retried until ctx expires.
			continue
		}
		if len(statuses.Value) == 0 || statuses.Value[0] == nil {
			continue
		}

		status := statuses.Value[0]
		if status.Err != nil {
			return fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err)
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return nil
		}
	}
}

// IsNotFoundError checks if an RPC error indicates a missing account.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "could not find account") ||
		strings.Contains(errStr, "not found")
}
