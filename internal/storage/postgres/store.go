package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/bankcore/transaction-processor/internal/interfaces"
	"github.com/bankcore/transaction-processor/internal/models"
)

// uniqueViolation is the postgres error code for a broken unique constraint.
const uniqueViolation = pq.ErrorCode("23505")

// TransactionStore persists the transaction log in postgres. The unique index
// on trx_id is the authoritative, cross-instance duplicate-detection tier.
type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// EnsureSchema creates the transaction_log table and its unique trx_id
// constraint if they do not exist yet.
func (s *TransactionStore) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS transaction_log (
		id                  TEXT PRIMARY KEY,
		trx_id              TEXT NOT NULL,
		bank_id             TEXT NOT NULL,
		customer_id         BIGINT NOT NULL,
		from_account        TEXT NOT NULL,
		to_account          TEXT NOT NULL,
		amount              NUMERIC NOT NULL,
		currency            TEXT NOT NULL,
		status              TEXT NOT NULL,
		reason              TEXT,
		request_timestamp   TIMESTAMPTZ NOT NULL,
		processed_timestamp TIMESTAMPTZ NOT NULL,
		processing_time_ms  BIGINT NOT NULL,
		CONSTRAINT uk_trx_id UNIQUE (trx_id)
	)`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure transaction_log schema: %w", err)
	}
	return nil
}

// SaveLog inserts one log entry inside its own database transaction. A trx_id
// uniqueness violation is reported as interfaces.ErrDuplicateTransaction; any
// other failure is returned verbatim.
func (s *TransactionStore) SaveLog(ctx context.Context, entry models.TransactionLogEntry) error {
	const query = `INSERT INTO transaction_log
		(id, trx_id, bank_id, customer_id, from_account, to_account, amount,
		 currency, status, reason, request_timestamp, processed_timestamp, processing_time_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = dbTx.ExecContext(ctx, query,
		entry.ID, entry.TrxID, entry.BankID, entry.CustomerID,
		entry.FromAccount, entry.ToAccount, entry.Amount, entry.Currency,
		entry.Status, entry.Reason, entry.RequestTimestamp,
		entry.ProcessedTimestamp, entry.ProcessingTimeMs)
	if err != nil {
		dbTx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return interfaces.ErrDuplicateTransaction
		}
		return err
	}
	return dbTx.Commit()
}

var _ interfaces.TransactionStore = (*TransactionStore)(nil)
