// Prism wallet daemon: serves the key-custody and transaction API for the
// extension UI shell.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prismwallet/prism/internal/api"
	"github.com/prismwallet/prism/internal/client"
	"github.com/prismwallet/prism/internal/config"
	"github.com/prismwallet/prism/internal/log"
	"github.com/prismwallet/prism/internal/model"
	"github.com/prismwallet/prism/internal/storage"
	"github.com/prismwallet/prism/internal/wallet"
)

func main() {
	if err := config.Init(); err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()
	log.Init(cfg.LogLevel)

	store, err := storage.OpenBadger(cfg.DataDir)
	if err != nil {
		log.Logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open data store")
	}
	defer store.Close()

	states := storage.NewStateStore(store)

	// Persisted endpoint overrides win over the configured defaults.
	endpoints := map[model.Network]string{
		model.NetworkMainnet: cfg.MainnetRPCURL,
		model.NetworkDevnet:  cfg.DevnetRPCURL,
	}
	overrides, err := states.LoadEndpoints()
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to load rpc endpoints")
	}
	for network, url := range overrides {
		if network.Valid() && url != "" {
			endpoints[network] = url
		}
	}

	clients := map[model.Network]wallet.ChainClient{}
	for network, url := range endpoints {
		clients[network] = client.NewSolanaClient(url, network, cfg.ConfirmTimeout)
	}
	factory := func(network model.Network) wallet.ChainClient {
		return clients[network]
	}

	jupiter := client.NewJupiterClient(cfg.JupiterBaseURL)

	session, err := wallet.NewSession(states, factory, jupiter, wallet.Options{
		RefreshInterval: cfg.RefreshInterval,
	})
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to initialize wallet session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	session.StartRefresh(ctx)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.SetupRouter(session),
	}

	go func() {
		log.Logger.Info().Str("port", cfg.Port).Msg("prism wallet listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Logger.Error().Err(err).Msg("shutdown failed")
	}
}
