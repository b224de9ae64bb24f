package keys

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ErrInvalidSecret is returned for secret-key inputs that fail to decode or
// have the wrong length.
var ErrInvalidSecret = errors.New("invalid secret key")

// ImportRawSecret accepts a raw secret key in one of three encodings,
// auto-detected: a JSON array of exactly 64 integers, a hex string (even
// length, 32 or 64 bytes), or a base58 string (32 or 64 bytes). Hex is
// checked before base58 since short hex strings are also valid base58.
func ImportRawSecret(input string) (solana.PublicKey, solana.PrivateKey, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return solana.PublicKey{}, nil, fmt.Errorf("%w: empty input", ErrInvalidSecret)
	}

	var secret []byte
	switch {
	case strings.HasPrefix(trimmed, "["):
		var err error
		secret, err = decodeJSONArray(trimmed)
		if err != nil {
			return solana.PublicKey{}, nil, err
		}
	case isHex(trimmed):
		var err error
		secret, err = hex.DecodeString(trimmed)
		if err != nil {
			return solana.PublicKey{}, nil, fmt.Errorf("%w: bad hex: %v", ErrInvalidSecret, err)
		}
	default:
		var err error
		secret, err = base58.Decode(trimmed)
		if err != nil {
			return solana.PublicKey{}, nil, fmt.Errorf("%w: bad base58: %v", ErrInvalidSecret, err)
		}
	}
	defer clear(secret)

	return KeypairFromBytes(secret)
}

// decodeJSONArray parses the Solana CLI keyfile format: a JSON array of
// exactly 64 byte values.
func decodeJSONArray(input string) ([]byte, error) {
	var values []int
	if err := json.Unmarshal([]byte(input), &values); err != nil {
		return nil, fmt.Errorf("%w: bad JSON array: %v", ErrInvalidSecret, err)
	}
	if len(values) != 64 {
		return nil, fmt.Errorf("%w: JSON array must hold exactly 64 integers, got %d", ErrInvalidSecret, len(values))
	}
	secret := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: array value %d out of byte range", ErrInvalidSecret, v)
		}
		secret[i] = byte(v)
	}
	return secret, nil
}

// isHex reports whether s is an even-length string over the hex charset.
func isHex(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
