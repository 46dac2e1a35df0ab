package touchkeys

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const DefaultBlinkInterval = 400 * time.Millisecond

// Ticker receives periodic ticks. Keyboard implements it.
type Ticker interface {
	Tick()
}

// BlinkScheduler ticks a target at a fixed interval from its own goroutine,
// independently of input events.
type BlinkScheduler struct {
	target   Ticker
	interval time.Duration

	running *atomic.Bool
	ticks   *atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBlinkScheduler returns a stopped scheduler. A non-positive interval uses
// DefaultBlinkInterval.
func NewBlinkScheduler(target Ticker, interval time.Duration) *BlinkScheduler {
	if interval <= 0 {
		interval = DefaultBlinkInterval
	}
	return &BlinkScheduler{
		target:   target,
		interval: interval,
		running:  atomic.NewBool(false),
		ticks:    atomic.NewInt64(0),
	}
}

// Start begins ticking until ctx is done or Stop is called.
func (b *BlinkScheduler) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	b.wg.Add(1)
	go b.loop(ctx)
	return nil
}

// Stop ends the tick loop and waits for it to exit.
func (b *BlinkScheduler) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.wg.Wait()
}

func (b *BlinkScheduler) Running() bool {
	return b.running.Load()
}

// Ticks returns how many ticks have been delivered.
func (b *BlinkScheduler) Ticks() int64 {
	return b.ticks.Load()
}

func (b *BlinkScheduler) Interval() time.Duration {
	return b.interval
}

func (b *BlinkScheduler) loop(ctx context.Context) {
	defer b.wg.Done()
	defer b.running.Store(false)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.target.Tick()
			b.ticks.Inc()
		}
	}
}
