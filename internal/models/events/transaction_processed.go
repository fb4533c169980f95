package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionProcessed is emitted after an outcome has been persisted to the
// transaction log, for both SUCCESS and FAILED entries.
type TransactionProcessed struct {
	EventID     string          `json:"event_id"`
	TrxID       string          `json:"trx_id"`
	BankID      string          `json:"bank_id"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
