package idgen

import (
	"fmt"
	"sync"
	"time"
)

// Generator produces day-scoped transaction identifiers of the form
// TRX-YYYYMMDD-000001. The sequence restarts at 1 on the first call observed
// on a new local calendar day.
type Generator struct {
	mu  sync.Mutex
	day string
	seq uint64
	now func() time.Time
}

// New returns a Generator driven by the wall clock.
func New() *Generator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Generator with an injectable clock.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns the next identifier. Safe for concurrent use: the date check,
// reset and increment all happen under one lock, so two callers straddling a
// day boundary can never both observe sequence 1.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.now().Format("20060102")
	if today != g.day {
		g.day = today
		g.seq = 0
	}
	g.seq++
	return fmt.Sprintf("TRX-%s-%06d", g.day, g.seq)
}
