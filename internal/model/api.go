package model

// AccountView is the account shape exposed to the UI shell. The ciphertext
// stays out of API responses.
type AccountView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
	CreatedAt string `json:"createdAt"`
}

// StateResponse represents response for GET /wallet/state
type StateResponse struct {
	Accounts         []AccountView `json:"accounts"`
	CurrentAccountID string        `json:"currentAccountId"`
	IsLocked         bool          `json:"isLocked"`
	Network          Network       `json:"network"`
}

// CreateWalletRequest represents request for POST /wallet/create
type CreateWalletRequest struct {
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateWalletResponse represents response for POST /wallet/create
type CreateWalletResponse struct {
	Mnemonic  string `json:"mnemonic"`
	PublicKey string `json:"publicKey"`
}

// ImportMnemonicRequest represents request for POST /wallet/import/mnemonic
type ImportMnemonicRequest struct {
	Mnemonic string `json:"mnemonic"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ImportKeyRequest represents request for POST /wallet/import/key
type ImportKeyRequest struct {
	Secret   string `json:"secret"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ImportResponse represents response for both import endpoints
type ImportResponse struct {
	PublicKey string `json:"publicKey"`
}

// UnlockRequest represents request for POST /wallet/unlock
type UnlockRequest struct {
	Password string `json:"password"`
}

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"` // SOL, decimal string
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	Signature string `json:"signature"`
}

// SwapRequest represents request for POST /wallet/swap
type SwapRequest struct {
	InputMint     string `json:"inputMint"`
	OutputMint    string `json:"outputMint"`
	Amount        string `json:"amount"` // input-token UI units, decimal string
	InputDecimals int    `json:"inputDecimals"`
	SlippageBps   int    `json:"slippageBps"`
}

// ExportRequest represents request for POST /wallet/export
type ExportRequest struct {
	Password string `json:"password"`
}

// ExportResponse represents response for POST /wallet/export
type ExportResponse struct {
	SecretKey string `json:"secretKey"` // base58
}

// AccountRequest represents rename/remove/select account requests
type AccountRequest struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// NetworkRequest represents request for POST /wallet/network
type NetworkRequest struct {
	Network Network `json:"network"`
}

// AirdropRequest represents request for POST /wallet/airdrop
type AirdropRequest struct {
	Amount string `json:"amount"` // SOL, decimal string
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	PublicKey string         `json:"publicKey"`
	SOL       string         `json:"sol"`
	Tokens    []TokenBalance `json:"tokens"`
}

// TransactionsResponse represents response for GET /wallet/transactions
type TransactionsResponse struct {
	PublicKey    string            `json:"publicKey"`
	Transactions []TransactionInfo `json:"transactions"`
}

// ReceiveResponse represents response for GET /wallet/receive
type ReceiveResponse struct {
	PublicKey string `json:"publicKey"`
	QR        string `json:"qr"` // base64 PNG
}

// FeeResponse represents response for GET /wallet/fee
type FeeResponse struct {
	SOL string `json:"sol"`
}
