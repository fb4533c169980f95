package processing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bankcore/transaction-processor/internal/models"
)

// ReasonInvalidFormat is reported when the inbound payload cannot be decoded.
// Decode failures never reach the processor and are never persisted.
const ReasonInvalidFormat = "Invalid XML format"

// DefaultPoolSize bounds concurrent processing when no size is configured.
const DefaultPoolSize = 100

// Result delivers the outcome of one submitted payload. Err is set only for
// fatal infrastructure faults; every business condition, decode failures
// included, arrives as an Outcome.
type Result struct {
	Outcome models.TransactionOutcome
	Err     error
}

// Orchestrator decodes raw payloads and runs the processor on a bounded worker
// pool, decoupling the inbound transport goroutine from processing work.
type Orchestrator struct {
	processor *Processor
	slots     chan struct{}
	logger    *zap.Logger
}

// NewOrchestrator builds an orchestrator with poolSize concurrent workers.
func NewOrchestrator(processor *Processor, poolSize int, logger *zap.Logger) *Orchestrator {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		processor: processor,
		slots:     make(chan struct{}, poolSize),
		logger:    logger,
	}
}

// Submit schedules processing of one encoded payload and returns a channel
// that receives exactly one Result before being closed.
//
// Submit never blocks: the spawned goroutine parks until a worker slot frees
// up, so submissions beyond the pool width queue without bound instead of
// being rejected. Elapsed time is measured from this call, so queueing delay
// counts toward the reported processing time. Once accepted, a request runs
// to completion; ctx is passed through to the store, not used to cancel.
func (o *Orchestrator) Submit(ctx context.Context, payload []byte) <-chan Result {
	start := time.Now()
	out := make(chan Result, 1)

	go func() {
		defer close(out)

		o.slots <- struct{}{}
		defer func() { <-o.slots }()

		req, err := models.DecodeTransactionRequest(payload)
		if err != nil {
			o.logger.Debug("rejected malformed payload", zap.Error(err))
			out <- Result{Outcome: models.TransactionOutcome{
				Status:           models.StatusFailed,
				Reason:           ReasonInvalidFormat,
				ProcessingTimeMs: elapsedMs(start),
			}}
			return
		}

		outcome, err := o.processor.Process(ctx, req, start)
		out <- Result{Outcome: outcome, Err: err}
	}()

	return out
}
