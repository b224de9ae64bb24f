package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams returns low-cost scrypt params for fast tests.
func fastParams() Params {
	return Params{N: 1 << 4, R: 8, P: 1}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	plaintext := []byte("secret key material")
	password := []byte("correcthorsebattery")

	blob, err := Encrypt(plaintext, password, fastParams())
	require.NoError(t, err)

	decrypted, err := Decrypt(blob, password)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), []byte("correct"), fastParams())
	require.NoError(t, err)

	_, err = Decrypt(blob, []byte("wrong"))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecrypt_Tampered(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), []byte("pass"), fastParams())
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = Decrypt(base64.StdEncoding.EncodeToString(raw), []byte("pass"))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecrypt_MalformedBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not base64", "!!not-base64!!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.blob, []byte("pass"))
			assert.ErrorIs(t, err, ErrDecryptFailed)
		})
	}
}

func TestEncrypt_UniqueCiphertexts(t *testing.T) {
	// Random salt and nonce: encrypting the same plaintext twice must not
	// produce the same blob.
	b1, err := Encrypt([]byte("same"), []byte("pass"), fastParams())
	require.NoError(t, err)
	b2, err := Encrypt([]byte("same"), []byte("pass"), fastParams())
	require.NoError(t, err)
	assert.NotEqual(t, b1, b2)
}

func TestDecrypt_ParamsEmbedded(t *testing.T) {
	// Decrypt must read cost parameters from the blob, not assume defaults.
	blob, err := Encrypt([]byte("data"), []byte("pass"), Params{N: 1 << 5, R: 4, P: 2})
	require.NoError(t, err)

	decrypted, err := Decrypt(blob, []byte("pass"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), decrypted)
}
