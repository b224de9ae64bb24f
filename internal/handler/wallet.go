package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prismwallet/prism/internal/common"
	"github.com/prismwallet/prism/internal/keys"
	"github.com/prismwallet/prism/internal/log"
	"github.com/prismwallet/prism/internal/model"
	"github.com/prismwallet/prism/internal/wallet"
)

// WalletHandler exposes the wallet session over HTTP for the UI shell.
type WalletHandler struct {
	session *wallet.Session
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(session *wallet.Session) *WalletHandler {
	return &WalletHandler{session: session}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps wallet errors onto HTTP statuses. Authentication failures
// are 401, preconditions and bad input 4xx, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, wallet.ErrIncorrectPassword),
		errors.Is(err, wallet.ErrWalletLocked):
		status = http.StatusUnauthorized
	case errors.Is(err, wallet.ErrNoAccount):
		status = http.StatusNotFound
	case errors.Is(err, wallet.ErrDuplicateAccount):
		status = http.StatusConflict
	case errors.Is(err, wallet.ErrPasswordRequired),
		errors.Is(err, wallet.ErrNameRequired),
		errors.Is(err, wallet.ErrAmountInvalid),
		errors.Is(err, wallet.ErrUnknownNetwork),
		errors.Is(err, wallet.ErrSwapUnavailable),
		errors.Is(err, wallet.ErrAirdropMainnet),
		errors.Is(err, keys.ErrInvalidMnemonic),
		errors.Is(err, keys.ErrInvalidSecret):
		status = http.StatusBadRequest
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrSlippageExceeded),
		errors.Is(err, wallet.ErrNoRoute):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.API.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: status})
}

func stateResponse(state model.WalletState) model.StateResponse {
	views := make([]model.AccountView, len(state.Accounts))
	for i, acct := range state.Accounts {
		views[i] = model.AccountView{
			ID:        acct.ID,
			Name:      acct.Name,
			PublicKey: acct.PublicKey,
			CreatedAt: acct.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return model.StateResponse{
		Accounts:         views,
		CurrentAccountID: state.CurrentAccountID,
		IsLocked:         state.IsLocked,
		Network:          state.Network,
	}
}

// State handles GET /wallet/state
// @Summary      Get wallet state
// @Description  Returns accounts, current selection, lock status, and network
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Router       /wallet/state [get]
func (h *WalletHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(h.session.State()))
}

// Create handles POST /wallet/create
// @Summary      Create new wallet
// @Description  Generates a mnemonic, derives the first account, and unlocks
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateWalletRequest  true  "Wallet data"
// @Success      200      {object}  model.CreateWalletResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	mnemonic, err := h.session.CreateWallet(r.Context(), password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	account, _ := h.session.CurrentAccount()
	writeJSON(w, http.StatusOK, model.CreateWalletResponse{
		Mnemonic:  mnemonic,
		PublicKey: account.PublicKey,
	})
}

// ImportMnemonic handles POST /wallet/import/mnemonic
// @Summary      Import wallet from mnemonic
// @Description  Derives the first account from a BIP-39 mnemonic
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportMnemonicRequest  true  "Import data"
// @Success      200      {object}  model.ImportResponse
// @Router       /wallet/import/mnemonic [post]
func (h *WalletHandler) ImportMnemonic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportMnemonicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	pub, err := h.session.ImportWallet(r.Context(), req.Mnemonic, password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ImportResponse{PublicKey: pub.String()})
}

// ImportKey handles POST /wallet/import/key
// @Summary      Import account from raw secret key
// @Description  Accepts a JSON byte array, hex, or base58 secret key
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportKeyRequest  true  "Import data"
// @Success      200      {object}  model.ImportResponse
// @Router       /wallet/import/key [post]
func (h *WalletHandler) ImportKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	pub, err := h.session.ImportPrivateKey(r.Context(), req.Secret, password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ImportResponse{PublicKey: pub.String()})
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Verifies the password and unlocks the session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.UnlockRequest  true  "Password"
// @Success      200      {object}  model.StateResponse
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	if err := h.session.UnlockWallet(r.Context(), password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(h.session.State()))
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Drops the session password and locks the wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	if err := h.session.LockWallet(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(h.session.State()))
}

// Balance handles GET /wallet/balance
// @Summary      Get balances
// @Description  Returns the cached SOL balance and SPL token holdings
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	account, ok := h.session.CurrentAccount()
	if !ok {
		writeError(w, wallet.ErrNoAccount)
		return
	}
	sol, tokens := h.session.Balance()
	writeJSON(w, http.StatusOK, model.BalanceResponse{
		PublicKey: account.PublicKey,
		SOL:       sol,
		Tokens:    tokens,
	})
}

// Transactions handles GET /wallet/transactions
// @Summary      Get recent transactions
// @Description  Returns the cached recent transaction history
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.TransactionsResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	account, ok := h.session.CurrentAccount()
	if !ok {
		writeError(w, wallet.ErrNoAccount)
		return
	}
	writeJSON(w, http.StatusOK, model.TransactionsResponse{
		PublicKey:    account.PublicKey,
		Transactions: h.session.RecentTransactions(),
	})
}

// Receive handles GET /wallet/receive
// @Summary      Get receive address
// @Description  Returns the current address with a QR code
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ReceiveResponse
// @Router       /wallet/receive [get]
func (h *WalletHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, qr, err := h.session.ReceiveQR()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ReceiveResponse{PublicKey: address, QR: qr})
}

// Send handles POST /wallet/send
// @Summary      Send SOL
// @Description  Signs and submits a SOL transfer from the current account
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transfer data"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	sig, err := h.session.SendTransfer(r.Context(), req.ToAddress, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SendResponse{Signature: sig})
}

// Swap handles POST /wallet/swap
// @Summary      Swap tokens
// @Description  Executes a token swap through the aggregator (mainnet only)
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwapRequest  true  "Swap data"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/swap [post]
func (h *WalletHandler) Swap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	sig, err := h.session.Swap(r.Context(), req.InputMint, req.OutputMint, req.Amount, req.InputDecimals, req.SlippageBps)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SendResponse{Signature: sig})
}

// Export handles POST /wallet/export
// @Summary      Export secret key
// @Description  Re-verifies the password and reveals the base58 secret key
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ExportRequest  true  "Password"
// @Success      200      {object}  model.ExportResponse
// @Router       /wallet/export [post]
func (h *WalletHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	secret, err := h.session.ExportSecretKey(password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ExportResponse{SecretKey: secret})
}

// RenameAccount handles POST /wallet/accounts/rename
// @Summary      Rename account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.AccountRequest  true  "Account id and new name"
// @Success      200      {object}  model.StateResponse
// @Router       /wallet/accounts/rename [post]
func (h *WalletHandler) RenameAccount(w http.ResponseWriter, r *http.Request) {
	h.accountOp(w, r, func(req model.AccountRequest) error {
		return h.session.RenameAccount(r.Context(), req.ID, req.Name)
	})
}

// RemoveAccount handles POST /wallet/accounts/remove
// @Summary      Remove account
// @Description  Removing the last account locks the wallet
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.AccountRequest  true  "Account id"
// @Success      200      {object}  model.StateResponse
// @Router       /wallet/accounts/remove [post]
func (h *WalletHandler) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	h.accountOp(w, r, func(req model.AccountRequest) error {
		return h.session.RemoveAccount(r.Context(), req.ID)
	})
}

// SelectAccount handles POST /wallet/accounts/select
// @Summary      Select current account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.AccountRequest  true  "Account id"
// @Success      200      {object}  model.StateResponse
// @Router       /wallet/accounts/select [post]
func (h *WalletHandler) SelectAccount(w http.ResponseWriter, r *http.Request) {
	h.accountOp(w, r, func(req model.AccountRequest) error {
		return h.session.SelectAccount(r.Context(), req.ID)
	})
}

func (h *WalletHandler) accountOp(w http.ResponseWriter, r *http.Request, op func(model.AccountRequest) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}
	if err := op(req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(h.session.State()))
}

// Network handles POST /wallet/network
// @Summary      Switch network
// @Description  Switches between mainnet and devnet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.NetworkRequest  true  "Target network"
// @Success      200      {object}  model.StateResponse
// @Router       /wallet/network [post]
func (h *WalletHandler) Network(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.NetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}
	if err := h.session.SwitchNetwork(r.Context(), req.Network); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(h.session.State()))
}

// Airdrop handles POST /wallet/airdrop
// @Summary      Request devnet airdrop
// @Description  Requests SOL from the devnet faucet (devnet only)
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.AirdropRequest  true  "Amount in SOL"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/airdrop [post]
func (h *WalletHandler) Airdrop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AirdropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: http.StatusBadRequest})
		return
	}

	sig, err := h.session.RequestAirdrop(r.Context(), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SendResponse{Signature: sig})
}

// Fee handles GET /wallet/fee
// @Summary      Estimate transfer fee
// @Description  Estimates the fee for a SOL transfer to the given address
// @Tags         wallet
// @Produce      json
// @Param        to  query     string  true  "Recipient address"
// @Success      200  {object}  model.FeeResponse
// @Router       /wallet/fee [get]
func (h *WalletHandler) Fee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	to := r.URL.Query().Get("to")
	if to == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "missing to parameter", Code: http.StatusBadRequest})
		return
	}

	lamports, err := h.session.EstimateFee(r.Context(), to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FeeResponse{SOL: common.LamportsToSOL(lamports)})
}
