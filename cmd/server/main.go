package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/bankcore/transaction-processor/internal/config"
	"github.com/bankcore/transaction-processor/internal/events/kafka"
	"github.com/bankcore/transaction-processor/internal/interfaces"
	"github.com/bankcore/transaction-processor/internal/processing"
	"github.com/bankcore/transaction-processor/internal/storage/memory"
	"github.com/bankcore/transaction-processor/internal/storage/postgres"
	"github.com/bankcore/transaction-processor/internal/storage/sqlite"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	store, cleanup, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("open transaction log", zap.Error(err))
	}
	defer cleanup()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		logger.Info("publishing transaction events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	processor := processing.NewProcessor(store, processing.NewInFlightRegistry(), publisher, cfg.AmountCeiling, logger)
	orchestrator := processing.NewOrchestrator(processor, cfg.WorkerPool, logger)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/server/transaction/process", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "unable to read request body", http.StatusBadRequest)
			return
		}

		// Accepted requests run to completion even if the caller goes away,
		// so the request context is deliberately not used here.
		res := <-orchestrator.Submit(context.Background(), payload)
		if res.Err != nil {
			logger.Error("transaction processing failed", zap.Error(res.Err))
			http.Error(w, "internal processing error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res.Outcome)
	})

	logger.Info("starting transaction server", zap.String("addr", cfg.ServerAddr))
	if err := http.ListenAndServe(cfg.ServerAddr, nil); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildStore picks the durable log backend from configuration: postgres when
// DATABASE_URL is set, sqlite when SQLITE_PATH is set, in-memory otherwise.
func buildStore(cfg *config.Config, logger *zap.Logger) (interfaces.TransactionStore, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewTransactionStore(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres transaction log")
		return store, func() { db.Close() }, nil

	case cfg.SQLitePath != "":
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite transaction log", zap.String("path", cfg.SQLitePath))
		return store, func() { store.Close() }, nil

	default:
		logger.Warn("no DATABASE_URL or SQLITE_PATH set, using in-memory transaction log")
		return memory.NewTransactionStore(), func() {}, nil
	}
}
