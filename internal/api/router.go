package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/prismwallet/prism/internal/handler"
	"github.com/prismwallet/prism/internal/wallet"
)

// SetupRouter sets up router with handlers
func SetupRouter(session *wallet.Session) http.Handler {
	walletHandler := handler.NewWalletHandler(session)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet lifecycle
	mux.HandleFunc("/wallet/state", walletHandler.State)
	mux.HandleFunc("/wallet/create", walletHandler.Create)
	mux.HandleFunc("/wallet/import/mnemonic", walletHandler.ImportMnemonic)
	mux.HandleFunc("/wallet/import/key", walletHandler.ImportKey)
	mux.HandleFunc("/wallet/unlock", walletHandler.Unlock)
	mux.HandleFunc("/wallet/lock", walletHandler.Lock)
	mux.HandleFunc("/wallet/export", walletHandler.Export)

	// Accounts
	mux.HandleFunc("/wallet/accounts/rename", walletHandler.RenameAccount)
	mux.HandleFunc("/wallet/accounts/remove", walletHandler.RemoveAccount)
	mux.HandleFunc("/wallet/accounts/select", walletHandler.SelectAccount)

	// Chain operations
	mux.HandleFunc("/wallet/balance", walletHandler.Balance)
	mux.HandleFunc("/wallet/transactions", walletHandler.Transactions)
	mux.HandleFunc("/wallet/receive", walletHandler.Receive)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/swap", walletHandler.Swap)
	mux.HandleFunc("/wallet/fee", walletHandler.Fee)
	mux.HandleFunc("/wallet/network", walletHandler.Network)
	mux.HandleFunc("/wallet/airdrop", walletHandler.Airdrop)

	return mux
}
