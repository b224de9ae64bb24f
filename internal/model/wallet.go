package model

import "strings"

// WalletState is the persisted root object (storage key "walletState").
// CurrentAccountID is empty only when Accounts is empty.
type WalletState struct {
	Accounts         []Account `json:"accounts"`
	CurrentAccountID string    `json:"currentAccountId"`
	IsLocked         bool      `json:"isLocked"`
	Network          Network   `json:"network"`
}

// DefaultWalletState is the state of a first run: no accounts, locked, devnet.
func DefaultWalletState() WalletState {
	return WalletState{
		Accounts: []Account{},
		IsLocked: true,
		Network:  NetworkDevnet,
	}
}

// FindAccount returns the account with the given id.
func (s WalletState) FindAccount(id string) (Account, bool) {
	for _, acct := range s.Accounts {
		if acct.ID == id {
			return acct, true
		}
	}
	return Account{}, false
}

// CurrentAccount returns the currently selected account.
func (s WalletState) CurrentAccount() (Account, bool) {
	if s.CurrentAccountID == "" {
		return Account{}, false
	}
	return s.FindAccount(s.CurrentAccountID)
}

// HasPublicKey reports whether any account already uses the given public key.
func (s WalletState) HasPublicKey(publicKey string) bool {
	for _, acct := range s.Accounts {
		if acct.PublicKey == publicKey {
			return true
		}
	}
	return false
}

// The transforms below are pure: they return a new state and leave the
// receiver untouched. Callers persist the full result atomically.

// AddAccount appends acct, makes it the current account, and unlocks.
func (s WalletState) AddAccount(acct Account) WalletState {
	next := s.Clone()
	next.Accounts = append(next.Accounts, acct)
	next.CurrentAccountID = acct.ID
	next.IsLocked = false
	return next
}

// RenameAccount replaces the name of the matching account. A name that trims
// to empty or an unknown id leaves the state unchanged.
func (s WalletState) RenameAccount(id, newName string) WalletState {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return s
	}
	next := s.Clone()
	for i := range next.Accounts {
		if next.Accounts[i].ID == id {
			next.Accounts[i].Name = trimmed
			break
		}
	}
	return next
}

// RemoveAccount filters the account out. If it was current, the first
// remaining account becomes current. Removing the last account locks the
// wallet.
func (s WalletState) RemoveAccount(id string) WalletState {
	next := s.Clone()
	remaining := next.Accounts[:0]
	for _, acct := range next.Accounts {
		if acct.ID != id {
			remaining = append(remaining, acct)
		}
	}
	next.Accounts = remaining

	if next.CurrentAccountID == id {
		if len(next.Accounts) > 0 {
			next.CurrentAccountID = next.Accounts[0].ID
		} else {
			next.CurrentAccountID = ""
		}
	}
	if len(next.Accounts) == 0 {
		next.IsLocked = true
	}
	return next
}

// SelectAccount sets the current account. An unknown id leaves the state
// unchanged. The caller is responsible for refreshing balances afterward.
func (s WalletState) SelectAccount(id string) WalletState {
	if _, ok := s.FindAccount(id); !ok {
		return s
	}
	next := s.Clone()
	next.CurrentAccountID = id
	return next
}

// SwitchNetwork changes the active cluster.
func (s WalletState) SwitchNetwork(network Network) WalletState {
	next := s.Clone()
	next.Network = network
	return next
}

// Clone returns a deep copy of the state.
func (s WalletState) Clone() WalletState {
	next := s
	next.Accounts = make([]Account, len(s.Accounts))
	copy(next.Accounts, s.Accounts)
	return next
}
