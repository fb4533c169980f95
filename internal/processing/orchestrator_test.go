package processing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcore/transaction-processor/internal/models"
	"github.com/bankcore/transaction-processor/internal/storage/memory"
)

func newTestOrchestrator(store *memory.TransactionStore, poolSize int) *Orchestrator {
	return NewOrchestrator(newTestProcessor(store), poolSize, nil)
}

func encode(t *testing.T, req *models.TransactionRequest) []byte {
	t.Helper()
	payload, err := req.EncodeXML()
	require.NoError(t, err)
	return payload
}

func TestOrchestrator_ValidPayload(t *testing.T) {
	store := memory.NewTransactionStore()
	o := newTestOrchestrator(store, 4)

	req := validRequest()
	req.Timestamp = time.Now()

	res := <-o.Submit(context.Background(), encode(t, req))
	require.NoError(t, res.Err)
	assert.Equal(t, models.StatusSuccess, res.Outcome.Status)
	assert.Equal(t, req.TrxID, res.Outcome.TrxID)
	assert.GreaterOrEqual(t, res.Outcome.ProcessingTimeMs, int64(0))

	_, ok := store.EntryByTrxID(req.TrxID)
	assert.True(t, ok)
}

func TestOrchestrator_MalformedPayload(t *testing.T) {
	store := memory.NewTransactionStore()
	o := newTestOrchestrator(store, 4)

	res := <-o.Submit(context.Background(), []byte("<TransactionRequest><TrxId>broken"))
	require.NoError(t, res.Err, "decode failures are business outcomes, not faults")
	assert.Equal(t, models.StatusFailed, res.Outcome.Status)
	assert.Equal(t, ReasonInvalidFormat, res.Outcome.Reason)
	assert.Empty(t, res.Outcome.TrxID)
	assert.GreaterOrEqual(t, res.Outcome.ProcessingTimeMs, int64(0))
	assert.Empty(t, store.Entries(), "decode failures never touch the store")
}

func TestOrchestrator_UnparseableAmount(t *testing.T) {
	store := memory.NewTransactionStore()
	o := newTestOrchestrator(store, 4)

	payload := []byte(`<TransactionRequest><TrxId>TRX-20250101-000001</TrxId><Amount>abc</Amount></TransactionRequest>`)
	res := <-o.Submit(context.Background(), payload)
	require.NoError(t, res.Err)
	assert.Equal(t, ReasonInvalidFormat, res.Outcome.Reason)
	assert.Empty(t, store.Entries())
}

func TestOrchestrator_ResubmitAfterCompletion(t *testing.T) {
	store := memory.NewTransactionStore()
	o := newTestOrchestrator(store, 4)

	req := validRequest()
	payload := encode(t, req)

	first := <-o.Submit(context.Background(), payload)
	require.NoError(t, first.Err)
	require.Equal(t, models.StatusSuccess, first.Outcome.Status)

	second := <-o.Submit(context.Background(), payload)
	require.NoError(t, second.Err)
	assert.Equal(t, models.StatusFailed, second.Outcome.Status)
	assert.Equal(t, ReasonDuplicate, second.Outcome.Reason)
	assert.Len(t, store.Entries(), 1)
}

func TestOrchestrator_FatalFaultRejectsResult(t *testing.T) {
	storeErr := errors.New("store unreachable")
	processor := NewProcessor(&faultyStore{err: storeErr}, NewInFlightRegistry(), nil, decimal.Decimal{}, nil)
	o := NewOrchestrator(processor, 4, nil)

	res := <-o.Submit(context.Background(), encode(t, validRequest()))
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, storeErr)
}

func TestOrchestrator_ConcurrentDistinctSubmissions(t *testing.T) {
	store := memory.NewTransactionStore()
	o := newTestOrchestrator(store, 8)

	const n = 40
	results := make([]<-chan Result, n)
	for i := 0; i < n; i++ {
		req := validRequest()
		req.TrxID = fmt.Sprintf("TRX-20250101-%06d", i+1)
		results[i] = o.Submit(context.Background(), encode(t, req))
	}

	for _, ch := range results {
		res := <-ch
		require.NoError(t, res.Err)
		assert.Equal(t, models.StatusSuccess, res.Outcome.Status)
	}
	assert.Len(t, store.Entries(), n)
}

// gatedStore blocks each insert until released and records the highest number
// of inserts in flight at once.
type gatedStore struct {
	mu      sync.Mutex
	current int
	max     int
	release chan struct{}
}

func (s *gatedStore) SaveLog(ctx context.Context, entry models.TransactionLogEntry) error {
	s.mu.Lock()
	s.current++
	if s.current > s.max {
		s.max = s.current
	}
	s.mu.Unlock()

	<-s.release

	s.mu.Lock()
	s.current--
	s.mu.Unlock()
	return nil
}

func (s *gatedStore) observedMax() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

func TestOrchestrator_BoundedConcurrency(t *testing.T) {
	store := &gatedStore{release: make(chan struct{})}
	processor := NewProcessor(store, NewInFlightRegistry(), nil, decimal.Decimal{}, nil)
	o := NewOrchestrator(processor, 2, nil)

	const n = 6
	results := make([]<-chan Result, n)
	for i := 0; i < n; i++ {
		req := validRequest()
		req.TrxID = fmt.Sprintf("TRX-20250101-%06d", i+1)
		// Submit returns immediately even with the pool saturated.
		results[i] = o.Submit(context.Background(), encode(t, req))
	}

	// Give workers a moment to occupy the pool.
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, store.observedMax(), 2, "no more than poolSize requests may process at once")

	close(store.release)
	for _, ch := range results {
		res := <-ch
		require.NoError(t, res.Err)
	}
	assert.LessOrEqual(t, store.observedMax(), 2)
}

func TestOrchestrator_ProcessingTimeIncludesQueueing(t *testing.T) {
	store := &gatedStore{release: make(chan struct{})}
	processor := NewProcessor(store, NewInFlightRegistry(), nil, decimal.Decimal{}, nil)
	o := NewOrchestrator(processor, 1, nil)

	first := validRequest()
	second := validRequest()
	second.TrxID = "TRX-20250101-000002"

	ch1 := o.Submit(context.Background(), encode(t, first))
	ch2 := o.Submit(context.Background(), encode(t, second))

	time.Sleep(50 * time.Millisecond)
	close(store.release)

	<-ch1
	res2 := <-ch2
	require.NoError(t, res2.Err)
	assert.GreaterOrEqual(t, res2.Outcome.ProcessingTimeMs, int64(40),
		"queueing delay behind the first request should count toward processing time")
}
