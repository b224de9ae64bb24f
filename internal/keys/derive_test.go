package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveKeypair_Deterministic(t *testing.T) {
	pub1, priv1, err := DeriveKeypair(testMnemonic)
	require.NoError(t, err)
	pub2, priv2, err := DeriveKeypair(testMnemonic)
	require.NoError(t, err)

	assert.Equal(t, pub1, pub2)
	assert.Equal(t, priv1, priv2)
	assert.Len(t, []byte(priv1), ed25519.PrivateKeySize)
}

// SLIP-0010 ed25519 test vector 1: seed 000102030405060708090a0b0c0d0e0f,
// chain m/0'/1'/2'/2'/1000000000'. Pins master-key and child-key derivation
// against published known answers.
func TestSLIP10_Ed25519Vector1(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	key, chain := slip10MasterKey(seed)
	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(key))
	assert.Equal(t, "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb", hex.EncodeToString(chain))

	steps := []struct {
		index      uint32
		key, chain string
	}{
		{0, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69"},
		{1, "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2", "a320425f77d1b5c2505a6b1b27382b37368ee640e3557c315416801243552f14"},
		{2, "92a5b23c0b8a99e37d07df3fb9966917f5d06e02ddbd909c7e184371463e9fc9", "2e69929e00b5ab250f49c3fb1c12f252de4fed2c1db88387094a0f8c4c9ccd6c"},
		{2, "30d1dc7e5fc04c31219ab25a27ae00b50f6fd66622f6e9c913253d6511d1e662", "8f6d87f93d750e0efccda017d662a1b31a266e4a6f5993b15f5c1f07f74dd5cc"},
		{1000000000, "8f94d394a8e8fd6b1bc2f3f49f5c47e385281d5c17e65324b0f62483e37e8793", "68789923a0cac2cd5a29172a475fe9e0fb14cd6adb5ad98a3fa70333e7afa230"},
	}
	for _, step := range steps {
		key, chain = slip10ChildKey(key, chain, step.index|hardenedOffset)
		assert.Equal(t, step.key, hex.EncodeToString(key))
		assert.Equal(t, step.chain, hex.EncodeToString(chain))
	}

	// The vector's final public key, without its 0x00 prefix byte.
	pub := ed25519.NewKeyFromSeed(key).Public().(ed25519.PublicKey)
	assert.Equal(t, "3c24da049451555d51a7014a37337aa4e12d41e485abccfa46b47dfb2af54b7a", hex.EncodeToString(pub))
}

func TestDeriveKeypair_PublicMatchesPrivate(t *testing.T) {
	pub, priv, err := DeriveKeypair(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey(), pub)
}

func TestDeriveKeypair_DifferentMnemonics(t *testing.T) {
	m1, err := GenerateMnemonic()
	require.NoError(t, err)
	m2, err := GenerateMnemonic()
	require.NoError(t, err)

	pub1, _, err := DeriveKeypair(m1)
	require.NoError(t, err)
	pub2, _, err := DeriveKeypair(m2)
	require.NoError(t, err)

	assert.NotEqual(t, pub1, pub2)
}

func TestDeriveKeypair_InvalidMnemonic(t *testing.T) {
	_, _, err := DeriveKeypair("junk phrase")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestKeypairFromBytes(t *testing.T) {
	_, priv, err := DeriveKeypair(testMnemonic)
	require.NoError(t, err)

	t.Run("full 64-byte key", func(t *testing.T) {
		pub, got, err := KeypairFromBytes(priv)
		require.NoError(t, err)
		assert.Equal(t, priv, got)
		assert.Equal(t, priv.PublicKey(), pub)
	})

	t.Run("32-byte seed", func(t *testing.T) {
		pub, got, err := KeypairFromBytes(priv[:32])
		require.NoError(t, err)
		assert.Equal(t, priv, got)
		assert.Equal(t, priv.PublicKey(), pub)
	})

	t.Run("inconsistent 64-byte key", func(t *testing.T) {
		bad := make([]byte, 64)
		copy(bad, priv)
		bad[40] ^= 0xff
		_, _, err := KeypairFromBytes(bad)
		assert.ErrorIs(t, err, ErrInvalidSecret)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, _, err := KeypairFromBytes(make([]byte, 33))
		assert.ErrorIs(t, err, ErrInvalidSecret)
	})
}
