package interfaces

import (
	"context"
	"errors"

	"github.com/bankcore/transaction-processor/internal/models"
)

// ErrDuplicateTransaction is returned by a TransactionStore when an insert
// violates the trx_id uniqueness constraint. The processor converts it into a
// business outcome; every other store error is a fatal fault.
var ErrDuplicateTransaction = errors.New("duplicate transaction id")

// TransactionStore is the durable transaction log. Implementations must
// enforce uniqueness on TrxID and report a violation as
// ErrDuplicateTransaction, distinguishable from all other faults.
type TransactionStore interface {
	SaveLog(ctx context.Context, entry models.TransactionLogEntry) error
}
