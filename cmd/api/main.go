package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/config"
	tellerHttp "github.com/MrJamesThe3rd/teller/internal/http"
	accountHandler "github.com/MrJamesThe3rd/teller/internal/http/account"
	"github.com/MrJamesThe3rd/teller/internal/http/auth"
	transfersHandler "github.com/MrJamesThe3rd/teller/internal/http/transfers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	banks := make([]*bank.Bank, 0, len(cfg.Banks.Names))

	for i, name := range cfg.Banks.Names {
		opts := bank.Options{
			Name:    name,
			LogFile: cfg.LogFile(name),
			CodeTTL: cfg.Transfer.CodeTTL,
		}
		if cfg.Banks.SeedDemo {
			opts.Seeds = bank.DemoSeeds(i)
		}

		b, err := bank.New(opts)
		if err != nil {
			slog.Error("failed to set up bank", "bank", name, "error", err)
			os.Exit(1)
		}

		banks = append(banks, b)
	}

	set := bank.NewSet(banks...)
	authManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		accountsV1  = accountHandler.NewHandler(set, authManager, cfg.Auth.BcryptCost)
		transfersV1 = transfersHandler.NewHandler(set)
	)

	router := tellerHttp.New(accountsV1, transfersV1, authManager.Middleware)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "banks", len(banks))

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
