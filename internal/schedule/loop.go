package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Loop errors.
var (
	// ErrLoopRunning is returned when Run is called on a running loop.
	ErrLoopRunning = errors.New("loop already running")

	// ErrLoopClosed is returned when work is submitted to a closed loop.
	ErrLoopClosed = errors.New("loop closed")
)

// DefaultQueueSize is the default capacity of the task queue.
const DefaultQueueSize = 256

// Loop executes posted functions one at a time on the goroutine that
// called Run.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger

	running   atomic.Bool
	processed atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithLoopLogger sets the logger used for loop diagnostics.
func WithLoopLogger(logger *zap.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		tasks:  make(chan func(), DefaultQueueSize),
		done:   make(chan struct{}),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes tasks until ctx is cancelled or Close is called.
// It returns ctx.Err() on cancellation and nil after Close.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	l.logger.Debug("loop started")
	defer l.logger.Debug("loop stopped", zap.Uint64("processed", l.processed.Load()))

	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
			l.processed.Add(1)
		}
	}
}

// Post queues fn. It blocks while the queue is full and reports false if
// the loop is closed. Post must not be called from the loop goroutine
// with a full queue.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return NewPosted(l.Post).AfterFunc(d, fn)
}

// Every posts fn to the loop every interval until the returned stop
// function is called or the loop closes.
func (l *Loop) Every(interval time.Duration, fn func()) (stop func()) {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	var stopOnce sync.Once

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !l.Post(fn) {
					return
				}
			}
		}
	}()

	return func() {
		stopOnce.Do(func() { close(quit) })
	}
}

// Close stops the loop and waits for Every goroutines to exit. Queued
// tasks that have not started are dropped. Close is idempotent.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

// Done is closed when the loop closes.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// IsRunning reports whether Run is executing.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Processed returns the number of tasks executed.
func (l *Loop) Processed() uint64 {
	return l.processed.Load()
}

var _ Scheduler = (*Loop)(nil)
