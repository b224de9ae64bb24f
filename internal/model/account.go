// Package model holds the wallet's domain types and API shapes.
package model

import "time"

// Network is a Solana cluster identifier.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
)

// Valid reports whether the network is a known cluster.
func (n Network) Valid() bool {
	return n == NetworkMainnet || n == NetworkDevnet
}

// Account is one keypair under custody. The private key is stored only as
// a password-encrypted ciphertext blob.
type Account struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	PublicKey           string    `json:"publicKey"`
	EncryptedPrivateKey string    `json:"encryptedPrivateKey"`
	CreatedAt           time.Time `json:"createdAt"`
}
