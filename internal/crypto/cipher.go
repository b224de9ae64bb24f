// Package crypto implements the password-based cipher that protects private
// keys at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the wallet keystore.
	// Security is prioritized over performance: N=2^18 (~256MB RAM, 0.5-2s)
	// keeps brute-force extremely expensive while still working inside a
	// browser host's memory limits.
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32

	saltLen  = 32
	nonceLen = 12

	// maxN caps the N read back from a ciphertext header so a corrupted
	// blob cannot demand unbounded memory.
	maxN = 1 << 20

	// Blob layout: salt(32) | N(4) | r(4) | p(4) | nonce(12) | ciphertext,
	// base64-encoded. Params are embedded so decryption is self-contained.
	headerLen = saltLen + 12 + nonceLen
)

// ErrDecryptFailed is returned when a ciphertext does not authenticate under
// the supplied password. Callers treat it uniformly as "incorrect password".
var ErrDecryptFailed = errors.New("decryption failed")

// Params holds scrypt cost parameters. Tests use cheaper values; production
// callers use DefaultParams.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams returns the production scrypt parameters.
func DefaultParams() Params {
	return Params{N: scryptN, R: scryptR, P: scryptP}
}

// Encrypt seals plaintext under password with scrypt + AES-256-GCM and
// returns a self-contained base64 blob. password must be []byte so the
// caller can zero it after use.
func Encrypt(plaintext, password []byte, params Params) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 0, headerLen+len(ciphertext))
	blob = append(blob, salt...)
	blob = binary.LittleEndian.AppendUint32(blob, uint32(params.N))
	blob = binary.LittleEndian.AppendUint32(blob, uint32(params.R))
	blob = binary.LittleEndian.AppendUint32(blob, uint32(params.P))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt. A wrong password or a tampered
// blob returns ErrDecryptFailed; Decrypt never panics.
func Decrypt(blob string, password []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blob", ErrDecryptFailed)
	}
	if len(raw) < headerLen {
		return nil, fmt.Errorf("%w: blob too short", ErrDecryptFailed)
	}

	salt := raw[:saltLen]
	n := int(binary.LittleEndian.Uint32(raw[saltLen:]))
	r := int(binary.LittleEndian.Uint32(raw[saltLen+4:]))
	p := int(binary.LittleEndian.Uint32(raw[saltLen+8:]))
	nonce := raw[saltLen+12 : headerLen]
	ciphertext := raw[headerLen:]

	if n <= 1 || n > maxN || n&(n-1) != 0 || r <= 0 || r > 64 || p <= 0 || p > 16 {
		return nil, fmt.Errorf("%w: invalid parameters", ErrDecryptFailed)
	}

	key, err := scrypt.Key(password, salt, n, r, p, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
