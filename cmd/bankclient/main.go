package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bankcore/transaction-processor/internal/config"
	"github.com/bankcore/transaction-processor/internal/idgen"
	"github.com/bankcore/transaction-processor/internal/models"
)

// Originator-bank relay. Accepts JSON transfer requests, assigns a trxId, and
// forwards the XML request to the central server without waiting for the
// outcome. The server's transaction log is the source of truth for results.

type bankTransactionRequest struct {
	CustomerID  int64           `json:"customerId"`
	FromAccount string          `json:"fromAccount"`
	ToAccount   string          `json:"toAccount"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type bankTransactionResponse struct {
	TrxID  string `json:"trxId"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	_ = godotenv.Load()
	bankID := config.EnvOr("BANK_ID", "BANK_A")
	serverURL := config.EnvOr("SERVER_TRANSACTION_URL", "http://localhost:8080/server/transaction/process")
	addr := config.EnvOr("CLIENT_ADDR", ":8081")

	gen := idgen.New()
	client := &http.Client{Timeout: 10 * time.Second}

	http.HandleFunc("/bank/transaction", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req bankTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		trxID := gen.Next()
		xmlReq := models.TransactionRequest{
			TrxID:       trxID,
			BankID:      bankID,
			CustomerID:  req.CustomerID,
			FromAccount: req.FromAccount,
			ToAccount:   req.ToAccount,
			Amount:      req.Amount,
			Currency:    req.Currency,
			Timestamp:   time.Now(),
		}
		payload, err := xmlReq.EncodeXML()
		if err != nil {
			logger.Error("encode transaction", zap.String("trx_id", trxID), zap.Error(err))
			http.Error(w, "unable to encode request", http.StatusInternalServerError)
			return
		}

		// Fire and forget: no retries, the HTTP goroutine is never blocked on
		// the server hop.
		go func() {
			resp, err := client.Post(serverURL, "application/xml", bytes.NewReader(payload))
			if err != nil {
				logger.Warn("forward transaction", zap.String("trx_id", trxID), zap.Error(err))
				return
			}
			resp.Body.Close()
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(bankTransactionResponse{
			TrxID:  trxID,
			Status: "FORWARDED",
			Reason: "Transaction forwarded to server",
		})
	})

	logger.Info("starting bank client", zap.String("addr", addr), zap.String("bank_id", bankID))
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("bank client stopped", zap.Error(err))
	}
}
