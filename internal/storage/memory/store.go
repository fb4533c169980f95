package memory

import (
	"context"
	"sync"

	"github.com/bankcore/transaction-processor/internal/interfaces"
	"github.com/bankcore/transaction-processor/internal/models"
)

// TransactionStore is an in-memory implementation of the transaction log,
// used in tests and local runs. It is safe for concurrent use and enforces
// the same trx_id uniqueness as the SQL stores.
type TransactionStore struct {
	mu      sync.Mutex
	entries []models.TransactionLogEntry
	byTrxID map[string]int
}

// NewTransactionStore returns an empty in-memory transaction log.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		entries: make([]models.TransactionLogEntry, 0),
		byTrxID: make(map[string]int),
	}
}

// SaveLog appends one entry, rejecting a repeated trx_id with
// interfaces.ErrDuplicateTransaction.
func (s *TransactionStore) SaveLog(ctx context.Context, entry models.TransactionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byTrxID[entry.TrxID]; exists {
		return interfaces.ErrDuplicateTransaction
	}
	s.byTrxID[entry.TrxID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of everything saved so far, in insertion order.
func (s *TransactionStore) Entries() []models.TransactionLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.TransactionLogEntry, len(s.entries))
	copy(copied, s.entries)
	return copied
}

// EntryByTrxID looks up the persisted entry for a transaction id.
func (s *TransactionStore) EntryByTrxID(trxID string) (models.TransactionLogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, exists := s.byTrxID[trxID]
	if !exists {
		return models.TransactionLogEntry{}, false
	}
	return s.entries[idx], true
}

var _ interfaces.TransactionStore = (*TransactionStore)(nil)
