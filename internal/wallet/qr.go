package wallet

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ReceiveQR returns the current account's address together with a base64
// PNG QR code of it, for the receive screen.
func (s *Session) ReceiveQR() (address, qrBase64 string, err error) {
	s.mu.Lock()
	account, ok := s.state.CurrentAccount()
	s.mu.Unlock()

	if !ok {
		return "", "", ErrNoAccount
	}

	qr, err := qrcode.New(account.PublicKey, qrcode.Medium)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", "", fmt.Errorf("failed to render QR code: %w", err)
	}

	return account.PublicKey, base64.StdEncoding.EncodeToString(png), nil
}
