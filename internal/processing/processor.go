package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bankcore/transaction-processor/internal/interfaces"
	"github.com/bankcore/transaction-processor/internal/models"
	"github.com/bankcore/transaction-processor/internal/models/events"
)

// Outcome reasons reported to callers.
const (
	ReasonCompleted           = "Completed"
	ReasonInsufficientBalance = "Insufficient Balance"
	ReasonDuplicate           = "Duplicate Transaction"
	ReasonDuplicateInFlight   = "Duplicate Transaction (in-flight)"
)

// DefaultAmountCeiling is the reference transfer limit: amounts above it are
// rejected as Insufficient Balance. The comparison is a plain numeric one in
// the request's own currency units.
var DefaultAmountCeiling = decimal.NewFromInt(100000)

// Processor turns one decoded request into a TransactionOutcome.
//
// Duplicate submissions are suppressed at two tiers. The in-flight registry
// catches concurrent duplicates inside this process before any store work; the
// store's unique trx_id constraint catches everything else, including
// submissions seen by other instances and replays after completion. A
// constraint violation is a business outcome, never a fatal fault, so
// duplicates never surface as a system error to the caller.
type Processor struct {
	store     interfaces.TransactionStore
	inFlight  *InFlightRegistry
	publisher interfaces.EventPublisher
	ceiling   decimal.Decimal
	logger    *zap.Logger
}

// NewProcessor wires a processor to its store and in-flight registry.
// publisher may be nil to disable event emission; a zero ceiling falls back
// to DefaultAmountCeiling.
func NewProcessor(store interfaces.TransactionStore, inFlight *InFlightRegistry,
	publisher interfaces.EventPublisher, ceiling decimal.Decimal, logger *zap.Logger) *Processor {
	if ceiling.IsZero() {
		ceiling = DefaultAmountCeiling
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		store:     store,
		inFlight:  inFlight,
		publisher: publisher,
		ceiling:   ceiling,
		logger:    logger,
	}
}

// Process runs validation, duplicate suppression, the ceiling rule and
// persistence for one request. start is when the request entered the system;
// elapsed time is recomputed at every return point so the reported duration
// reflects the work actually done.
//
// The returned error is non-nil only for fatal infrastructure faults; every
// business condition, duplicates included, arrives as a TransactionOutcome.
func (p *Processor) Process(ctx context.Context, req *models.TransactionRequest, start time.Time) (models.TransactionOutcome, error) {
	var trxID string
	if req != nil {
		trxID = req.TrxID
	}

	if strings.TrimSpace(trxID) != "" {
		if !p.inFlight.TryAcquire(trxID) {
			p.logger.Info("rejected in-flight duplicate", zap.String("trx_id", trxID))
			return p.outcome(trxID, models.StatusFailed, ReasonDuplicateInFlight, start), nil
		}
		defer p.inFlight.Release(trxID)
	}

	if reason := Validate(req); reason != "" {
		if req != nil {
			if err := p.saveLog(ctx, req, models.StatusFailed, reason, start); err != nil {
				return models.TransactionOutcome{}, fmt.Errorf("persist transaction %s: %w", trxID, err)
			}
		}
		return p.outcome(trxID, models.StatusFailed, reason, start), nil
	}

	status, reason := models.StatusSuccess, ReasonCompleted
	if req.Amount.Cmp(p.ceiling) > 0 {
		status, reason = models.StatusFailed, ReasonInsufficientBalance
	}

	if err := p.saveLog(ctx, req, status, reason, start); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateTransaction) {
			p.logger.Info("rejected persisted duplicate", zap.String("trx_id", trxID))
			return p.outcome(trxID, models.StatusFailed, ReasonDuplicate, start), nil
		}
		return models.TransactionOutcome{}, fmt.Errorf("persist transaction %s: %w", trxID, err)
	}

	return p.outcome(trxID, status, reason, start), nil
}

// saveLog builds and persists the log entry for this request, then emits the
// processed event. The request timestamp defaults to processing time when the
// originator left it unset.
func (p *Processor) saveLog(ctx context.Context, req *models.TransactionRequest, status, reason string, start time.Time) error {
	now := time.Now()
	requestTS := req.Timestamp
	if requestTS.IsZero() {
		requestTS = now
	}

	entry := models.TransactionLogEntry{
		ID:                 uuid.NewString(),
		TrxID:              req.TrxID,
		BankID:             req.BankID,
		CustomerID:         req.CustomerID,
		FromAccount:        req.FromAccount,
		ToAccount:          req.ToAccount,
		Amount:             req.Amount,
		Currency:           req.Currency,
		Status:             status,
		Reason:             reason,
		RequestTimestamp:   requestTS,
		ProcessedTimestamp: now,
		ProcessingTimeMs:   elapsedMs(start),
	}
	if err := p.store.SaveLog(ctx, entry); err != nil {
		return err
	}

	p.publish(ctx, entry)
	return nil
}

// publish emits a TransactionProcessed event for a persisted entry. Publish
// failures are logged and swallowed; the outcome is already durable.
func (p *Processor) publish(ctx context.Context, entry models.TransactionLogEntry) {
	if p.publisher == nil {
		return
	}

	event := events.TransactionProcessed{
		EventID:     uuid.NewString(),
		TrxID:       entry.TrxID,
		BankID:      entry.BankID,
		FromAccount: entry.FromAccount,
		ToAccount:   entry.ToAccount,
		Amount:      entry.Amount,
		Currency:    entry.Currency,
		Status:      entry.Status,
		Reason:      entry.Reason,
		OccurredAt:  entry.ProcessedTimestamp,
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("publish transaction event", zap.String("trx_id", entry.TrxID), zap.Error(err))
	}
}

func (p *Processor) outcome(trxID, status, reason string, start time.Time) models.TransactionOutcome {
	return models.TransactionOutcome{
		TrxID:            trxID,
		Status:           status,
		Reason:           reason,
		ProcessingTimeMs: elapsedMs(start),
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
