package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLogEntry is one persisted row of the transaction log. An entry is
// written exactly once per processed request and never mutated or deleted.
// TrxID is unique across all rows; the durable store enforces that, not the
// application.
type TransactionLogEntry struct {
	ID                 string
	TrxID              string
	BankID             string
	CustomerID         int64
	FromAccount        string
	ToAccount          string
	Amount             decimal.Decimal
	Currency           string
	Status             string
	Reason             string
	RequestTimestamp   time.Time
	ProcessedTimestamp time.Time
	ProcessingTimeMs   int64
}
