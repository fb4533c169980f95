package models

// Transaction outcome statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// TransactionOutcome is the structured result returned to the caller for one
// submitted request. ProcessingTimeMs is wall-clock time from intake to the
// point the outcome was produced, including any queueing delay.
type TransactionOutcome struct {
	TrxID            string `json:"trxId"`
	Status           string `json:"status"`
	Reason           string `json:"reason"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}
