package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateWith(accounts ...Account) WalletState {
	state := DefaultWalletState()
	for _, acct := range accounts {
		state = state.AddAccount(acct)
	}
	return state
}

func acct(id string) Account {
	return Account{ID: id, Name: "Account " + id, PublicKey: "pk-" + id, EncryptedPrivateKey: "ct-" + id}
}

func TestAddAccountSelectsAndUnlocks(t *testing.T) {
	state := DefaultWalletState()
	assert.True(t, state.IsLocked)

	next := state.AddAccount(acct("a"))
	assert.Equal(t, "a", next.CurrentAccountID)
	assert.False(t, next.IsLocked)

	// The receiver is untouched.
	assert.Empty(t, state.Accounts)
	assert.True(t, state.IsLocked)
}

func TestRenameAccount(t *testing.T) {
	state := stateWith(acct("a"))

	next := state.RenameAccount("a", "  Savings  ")
	assert.Equal(t, "Savings", next.Accounts[0].Name)

	assert.Equal(t, state, state.RenameAccount("a", "   "))
	assert.Equal(t, state, state.RenameAccount("missing", "Name"))
}

func TestRemoveAccountRepointsCurrent(t *testing.T) {
	state := stateWith(acct("a"), acct("b"))
	require.Equal(t, "b", state.CurrentAccountID)

	next := state.RemoveAccount("b")
	assert.Equal(t, "a", next.CurrentAccountID)
	assert.False(t, next.IsLocked)

	next = next.RemoveAccount("a")
	assert.Empty(t, next.Accounts)
	assert.Empty(t, next.CurrentAccountID)
	assert.True(t, next.IsLocked)
}

func TestRemoveNonCurrentKeepsCurrent(t *testing.T) {
	state := stateWith(acct("a"), acct("b"))

	next := state.RemoveAccount("a")
	assert.Equal(t, "b", next.CurrentAccountID)
	assert.Len(t, next.Accounts, 1)
}

func TestSelectAccountUnknownIsNoOp(t *testing.T) {
	state := stateWith(acct("a"), acct("b"))

	next := state.SelectAccount("a")
	assert.Equal(t, "a", next.CurrentAccountID)

	assert.Equal(t, next, next.SelectAccount("missing"))
}

func TestCloneIsDeep(t *testing.T) {
	state := stateWith(acct("a"))
	copied := state.Clone()
	copied.Accounts[0].Name = "changed"
	assert.Equal(t, "Account a", state.Accounts[0].Name)
}

func TestNetworkValid(t *testing.T) {
	assert.True(t, NetworkMainnet.Valid())
	assert.True(t, NetworkDevnet.Valid())
	assert.False(t, Network("testnet").Valid())
	assert.False(t, Network("").Valid())
}
