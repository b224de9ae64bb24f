package storage

import (
	"encoding/json"
	"fmt"

	"github.com/prismwallet/prism/internal/model"
)

const (
	// walletStateKey is the single record holding the persisted WalletState.
	walletStateKey = "walletState"

	// rpcEndpointsKey holds per-network RPC URL overrides, persisted
	// separately from the wallet state.
	rpcEndpointsKey = "rpcEndpoints"
)

// StateStore loads and saves the typed wallet state through a Store.
type StateStore struct {
	store Store
}

// NewStateStore wraps a Store.
func NewStateStore(store Store) *StateStore {
	return &StateStore{store: store}
}

// Load reads the persisted WalletState. A missing record yields the default
// first-run state. Persisted JSON is validated, not trusted.
func (s *StateStore) Load() (model.WalletState, error) {
	raw, found, err := s.store.Get(walletStateKey)
	if err != nil {
		return model.WalletState{}, err
	}
	if !found {
		return model.DefaultWalletState(), nil
	}

	var state model.WalletState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.WalletState{}, fmt.Errorf("corrupt wallet state: %w", err)
	}
	if err := ValidateState(state); err != nil {
		return model.WalletState{}, fmt.Errorf("corrupt wallet state: %w", err)
	}
	if state.Accounts == nil {
		state.Accounts = []model.Account{}
	}
	return state, nil
}

// Save persists the full WalletState atomically.
func (s *StateStore) Save(state model.WalletState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal wallet state: %w", err)
	}
	return s.store.Set(walletStateKey, raw)
}

// LoadEndpoints reads persisted per-network RPC URL overrides.
func (s *StateStore) LoadEndpoints() (map[model.Network]string, error) {
	raw, found, err := s.store.Get(rpcEndpointsKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[model.Network]string{}, nil
	}
	var endpoints map[model.Network]string
	if err := json.Unmarshal(raw, &endpoints); err != nil {
		return nil, fmt.Errorf("corrupt rpc endpoints: %w", err)
	}
	return endpoints, nil
}

// SaveEndpoints persists per-network RPC URL overrides.
func (s *StateStore) SaveEndpoints(endpoints map[model.Network]string) error {
	raw, err := json.Marshal(endpoints)
	if err != nil {
		return fmt.Errorf("marshal rpc endpoints: %w", err)
	}
	return s.store.Set(rpcEndpointsKey, raw)
}

// ValidateState checks the structural invariants of a persisted state:
// known network, required account fields, no duplicate ids or public keys,
// and a current-account pointer that resolves.
func ValidateState(state model.WalletState) error {
	if !state.Network.Valid() {
		return fmt.Errorf("unknown network %q", state.Network)
	}

	ids := make(map[string]struct{}, len(state.Accounts))
	pubkeys := make(map[string]struct{}, len(state.Accounts))
	for i, acct := range state.Accounts {
		if acct.ID == "" || acct.PublicKey == "" || acct.EncryptedPrivateKey == "" {
			return fmt.Errorf("account %d is missing required fields", i)
		}
		if _, dup := ids[acct.ID]; dup {
			return fmt.Errorf("duplicate account id %q", acct.ID)
		}
		if _, dup := pubkeys[acct.PublicKey]; dup {
			return fmt.Errorf("duplicate public key %q", acct.PublicKey)
		}
		ids[acct.ID] = struct{}{}
		pubkeys[acct.PublicKey] = struct{}{}
	}

	if len(state.Accounts) == 0 {
		if state.CurrentAccountID != "" {
			return fmt.Errorf("current account set but no accounts exist")
		}
		return nil
	}
	if state.CurrentAccountID == "" {
		return fmt.Errorf("accounts exist but no current account is set")
	}
	if _, ok := ids[state.CurrentAccountID]; !ok {
		return fmt.Errorf("current account %q not found", state.CurrentAccountID)
	}
	return nil
}
