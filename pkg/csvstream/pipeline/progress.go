package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
)

// Progress holds the counters shared between the stages and the consumer.
// Counters only grow and can be read without locking; Changed lets a waiter
// sleep until the next update instead of spinning.
type Progress struct {
	expected  atomic.Int64
	tokens    atomic.Int64
	assembled atomic.Int64
	consumed  atomic.Int64
	finished  atomic.Bool

	errOnce sync.Once
	err     atomic.Pointer[error]

	mu     sync.Mutex
	signal chan struct{}
}

func NewProgress(expected int64) *Progress {
	p := &Progress{signal: make(chan struct{})}
	p.expected.Store(expected)
	return p
}

// Changed returns a channel closed at the next update. Fetch it before
// checking a condition, then wait on it, to avoid missing an update.
func (p *Progress) Changed() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signal
}

func (p *Progress) notify() {
	p.mu.Lock()
	close(p.signal)
	p.signal = make(chan struct{})
	p.mu.Unlock()
}

func (p *Progress) Expected() int64  { return p.expected.Load() }
func (p *Progress) Tokens() int64    { return p.tokens.Load() }
func (p *Progress) Assembled() int64 { return p.assembled.Load() }
func (p *Progress) Consumed() int64  { return p.consumed.Load() }
func (p *Progress) Finished() bool   { return p.finished.Load() }

func (p *Progress) AddTokens(n int64) {
	p.tokens.Add(n)
}

func (p *Progress) RowAssembled() {
	p.assembled.Add(1)
	p.notify()
}

func (p *Progress) RowConsumed() {
	p.consumed.Add(1)
}

// Finish marks the assembly stage as stopped; no more rows will appear.
func (p *Progress) Finish() {
	p.finished.Store(true)
	p.notify()
}

// Fail records err if it is the first failure.
func (p *Progress) Fail(err error) {
	if err == nil {
		return
	}
	p.errOnce.Do(func() {
		p.err.Store(&err)
		p.notify()
	})
}

func (p *Progress) Err() error {
	if e := p.err.Load(); e != nil {
		return *e
	}
	return nil
}

// Ready reports whether an assembled row is waiting to be consumed.
func (p *Progress) Ready() bool {
	consumed := p.consumed.Load()
	return consumed < p.expected.Load() && consumed < p.assembled.Load()
}

// Done reports whether every row that will ever be assembled has been consumed.
func (p *Progress) Done() bool {
	expected := p.expected.Load()
	if expected == 0 {
		return true
	}
	// finished first: once set, assembled no longer moves
	finished := p.finished.Load()
	assembled := p.assembled.Load()
	if assembled < expected && !finished {
		return false
	}
	return p.consumed.Load() >= assembled
}

func (p *Progress) Stats() types.Stats {
	return types.Stats{
		ExpectedRows:   p.expected.Load(),
		TokensProduced: p.tokens.Load(),
		RowsAssembled:  p.assembled.Load(),
		RowsConsumed:   p.consumed.Load(),
	}
}
