package keys

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DerivationPath is the fixed derivation path for account 0. Every major
// Solana wallet derives its first account here.
const DerivationPath = "m/44'/501'/0'/0'"

const hardenedOffset = uint32(0x80000000)

// derivationIndexes is DerivationPath as hardened child indexes.
// SLIP-10 ed25519 supports hardened derivation only.
var derivationIndexes = []uint32{
	hardenedOffset + 44,
	hardenedOffset + 501,
	hardenedOffset + 0,
	hardenedOffset + 0,
}

// DeriveKeypair turns a mnemonic into the account-0 keypair: BIP-39 seed,
// SLIP-10 ed25519 derivation at DerivationPath, then deterministic ed25519
// key generation from the derived 32-byte seed.
func DeriveKeypair(mnemonic string) (solana.PublicKey, solana.PrivateKey, error) {
	seed, err := SeedFromMnemonic(mnemonic)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	defer clear(seed)

	key, chain := slip10MasterKey(seed)
	defer clear(key)
	defer clear(chain)
	for _, index := range derivationIndexes {
		key, chain = slip10ChildKey(key, chain, index)
	}

	priv := solana.PrivateKey(ed25519.NewKeyFromSeed(key))
	return priv.PublicKey(), priv, nil
}

// slip10MasterKey computes the SLIP-10 ed25519 master key and chain code.
func slip10MasterKey(seed []byte) (key, chain []byte) {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// slip10ChildKey computes a hardened child key per SLIP-10.
func slip10ChildKey(key, chain []byte, index uint32) (childKey, childChain []byte) {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, chain)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// KeypairFromBytes builds a keypair from a raw secret: a 64-byte input is a
// full secret key (verified internally consistent), a 32-byte input is a seed.
func KeypairFromBytes(secret []byte) (solana.PublicKey, solana.PrivateKey, error) {
	switch len(secret) {
	case ed25519.PrivateKeySize: // 64
		// The second half must be the public key of the first half, like
		// Keypair.fromSecretKey enforces.
		derived := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize])
		if !hmac.Equal(derived[ed25519.SeedSize:], secret[ed25519.SeedSize:]) {
			return solana.PublicKey{}, nil, fmt.Errorf("%w: public half does not match private half", ErrInvalidSecret)
		}
		priv := make(solana.PrivateKey, ed25519.PrivateKeySize)
		copy(priv, secret)
		return priv.PublicKey(), priv, nil
	case ed25519.SeedSize: // 32
		priv := solana.PrivateKey(ed25519.NewKeyFromSeed(secret))
		return priv.PublicKey(), priv, nil
	default:
		return solana.PublicKey{}, nil, fmt.Errorf("%w: secret must be 32 or 64 bytes, got %d", ErrInvalidSecret, len(secret))
	}
}
