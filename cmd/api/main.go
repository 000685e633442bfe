package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/jairft/Bank-service/internal/adapter/handler"
	"github.com/jairft/Bank-service/internal/adapter/middleware"
	"github.com/jairft/Bank-service/internal/adapter/storage"
	"github.com/jairft/Bank-service/internal/core/bank"
	"github.com/jairft/Bank-service/internal/core/config"
	"github.com/jairft/Bank-service/internal/core/worker"
)

// store is everything the handlers and middleware need from persistence.
// Both the postgres and the in-memory implementations satisfy it.
type store interface {
	bank.AccountStore
	bank.KeyStore
	bank.LedgerStore
	middleware.AuthStore
	handler.APIKeyStore
}

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		db      store
		events  bank.EventSink
		cleanup func()
	)

	if cfg.DatabaseURL != "" {
		pool, err := storage.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Database connection failed", "error", err)
			os.Exit(1)
		}
		db = storage.NewPostgres(pool)
		events = &worker.Enqueuer{DB: pool, URL: cfg.WebhookURL}
		worker.StartNotifier(pool, cfg.WebhookSecret)
		cleanup = pool.Close
	} else {
		slog.Warn("DATABASE_URL not set, running with the in-memory store")
		db = storage.NewMemoryStore()
		cleanup = func() {}
	}

	guard := bank.NewGuard(db)
	keys := bank.NewKeyDirectory(db, db, cfg.BankInfo())
	transfers := bank.NewTransfers(db, keys, db, guard, events)

	accountHandler := &handler.AccountHandler{Accounts: db, Keys: db}
	transactionHandler := &handler.TransactionHandler{Transfers: transfers}
	pixHandler := &handler.PixHandler{Keys: keys, Transfers: transfers}
	secretHandler := &handler.SecretHandler{Guard: guard}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/v1")

	// Public
	api.Post("/accounts", accountHandler.CreateAccount)
	api.Post("/accounts/:id/api-keys", accountHandler.IssueAPIKey)
	api.Post("/pix/keys/resolve", pixHandler.ResolveKey)

	// Protected
	private := api.Use(middleware.Protected(db))
	private.Get("/accounts/:id/balance", accountHandler.Balance)
	private.Get("/accounts/:id/transactions", transactionHandler.History)
	private.Post("/deposit", transactionHandler.Deposit)
	private.Post("/withdraw", transactionHandler.Withdraw)
	private.Post("/pix/transfer", pixHandler.Transfer)
	private.Post("/pix/keys", pixHandler.RegisterKey)
	private.Get("/pix/keys", pixHandler.ListKeys)
	private.Patch("/pix/keys/:keyId/deactivate", pixHandler.DeactivateKey)
	private.Delete("/pix/keys/:keyId", pixHandler.DeleteKey)
	private.Post("/secret", secretHandler.Set)
	private.Put("/secret", secretHandler.Change)
	private.Get("/secret/status", secretHandler.Status)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	cleanup()
	slog.Info("Server exited")
}
