package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/bankcore/transaction-processor/internal/interfaces"
	"github.com/bankcore/transaction-processor/internal/models"
)

// TransactionStore persists the transaction log in a local sqlite database,
// with the same trx_id duplicate semantics as the postgres store. Intended
// for single-node deployments and local runs.
type TransactionStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*TransactionStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &TransactionStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TransactionStore) Close() error {
	return s.db.Close()
}

func (s *TransactionStore) ensureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS transaction_log (
		id                  TEXT PRIMARY KEY,
		trx_id              TEXT NOT NULL UNIQUE,
		bank_id             TEXT NOT NULL,
		customer_id         INTEGER NOT NULL,
		from_account        TEXT NOT NULL,
		to_account          TEXT NOT NULL,
		amount              TEXT NOT NULL,
		currency            TEXT NOT NULL,
		status              TEXT NOT NULL,
		reason              TEXT,
		request_timestamp   TIMESTAMP NOT NULL,
		processed_timestamp TIMESTAMP NOT NULL,
		processing_time_ms  INTEGER NOT NULL
	)`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure transaction_log schema: %w", err)
	}
	return nil
}

// SaveLog inserts one log entry. A trx_id uniqueness violation is reported as
// interfaces.ErrDuplicateTransaction; any other failure is returned verbatim.
func (s *TransactionStore) SaveLog(ctx context.Context, entry models.TransactionLogEntry) error {
	const query = `INSERT INTO transaction_log
		(id, trx_id, bank_id, customer_id, from_account, to_account, amount,
		 currency, status, reason, request_timestamp, processed_timestamp, processing_time_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.TrxID, entry.BankID, entry.CustomerID,
		entry.FromAccount, entry.ToAccount, entry.Amount, entry.Currency,
		entry.Status, entry.Reason, entry.RequestTimestamp,
		entry.ProcessedTimestamp, entry.ProcessingTimeMs)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return interfaces.ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

var _ interfaces.TransactionStore = (*TransactionStore)(nil)
