package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismwallet/prism/internal/model"
)

func testAccount(id, pubkey string) model.Account {
	return model.Account{
		ID:                  id,
		Name:                "Account " + id,
		PublicKey:           pubkey,
		EncryptedPrivateKey: "blob-" + id,
		CreatedAt:           time.Now().UTC(),
	}
}

func TestStateStore_LoadDefault(t *testing.T) {
	states := NewStateStore(NewMemoryStore())

	state, err := states.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Accounts)
	assert.True(t, state.IsLocked)
	assert.Equal(t, model.NetworkDevnet, state.Network)
}

func TestStateStore_SaveLoad(t *testing.T) {
	states := NewStateStore(NewMemoryStore())

	want := model.DefaultWalletState().
		AddAccount(testAccount("a", "pk-a")).
		AddAccount(testAccount("b", "pk-b"))
	require.NoError(t, states.Save(want))

	got, err := states.Load()
	require.NoError(t, err)
	assert.Equal(t, want.CurrentAccountID, got.CurrentAccountID)
	assert.Equal(t, want.Network, got.Network)
	require.Len(t, got.Accounts, 2)
	assert.Equal(t, "pk-a", got.Accounts[0].PublicKey)
}

func TestStateStore_RejectsCorruptJSON(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("walletState", []byte("{not json")))

	_, err := NewStateStore(store).Load()
	assert.Error(t, err)
}

func TestStateStore_RejectsInvalidState(t *testing.T) {
	tests := []struct {
		name  string
		state model.WalletState
	}{
		{
			name: "duplicate id",
			state: model.WalletState{
				Accounts:         []model.Account{testAccount("a", "pk-1"), testAccount("a", "pk-2")},
				CurrentAccountID: "a",
				Network:          model.NetworkDevnet,
			},
		},
		{
			name: "duplicate public key",
			state: model.WalletState{
				Accounts:         []model.Account{testAccount("a", "pk"), testAccount("b", "pk")},
				CurrentAccountID: "a",
				Network:          model.NetworkDevnet,
			},
		},
		{
			name: "unknown network",
			state: model.WalletState{
				Accounts:         []model.Account{testAccount("a", "pk")},
				CurrentAccountID: "a",
				Network:          model.Network("testnet"),
			},
		},
		{
			name: "dangling current account",
			state: model.WalletState{
				Accounts:         []model.Account{testAccount("a", "pk")},
				CurrentAccountID: "missing",
				Network:          model.NetworkMainnet,
			},
		},
		{
			name: "missing ciphertext",
			state: model.WalletState{
				Accounts: []model.Account{{
					ID:        "a",
					PublicKey: "pk",
				}},
				CurrentAccountID: "a",
				Network:          model.NetworkMainnet,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			raw, err := json.Marshal(tt.state)
			require.NoError(t, err)
			require.NoError(t, store.Set("walletState", raw))

			_, err = NewStateStore(store).Load()
			assert.Error(t, err)
		})
	}
}

func TestStateStore_Endpoints(t *testing.T) {
	states := NewStateStore(NewMemoryStore())

	got, err := states.LoadEndpoints()
	require.NoError(t, err)
	assert.Empty(t, got)

	want := map[model.Network]string{model.NetworkDevnet: "http://localhost:8899"}
	require.NoError(t, states.SaveEndpoints(want))

	got, err = states.LoadEndpoints()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
