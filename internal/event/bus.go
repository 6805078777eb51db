package event

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stats contains bus counters.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used to report handler failures.
func WithLogger(logger *zap.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSource sets the source recorded by PublishTopic.
func WithSource(source string) BusOption {
	return func(b *Bus) {
		b.source = source
	}
}

// Bus delivers envelopes to subscriptions synchronously.
// It is safe for concurrent use. Handlers may publish and subscribe.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	seq    uint64
	closed bool

	logger *zap.Logger
	source string

	published atomic.Uint64
	delivered atomic.Uint64
	errs      atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		logger: zap.NewNop(),
		source: "typewriter",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for topics matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.Valid() {
		return nil, ErrInvalidTopic
	}

	config := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&config)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	b.seq++
	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		config:  config,
		seq:     b.seq,
	}
	b.subs = append(b.subs, sub)
	slices.SortStableFunc(b.subs, func(x, y *Subscription) int {
		if x.config.Priority != y.config.Priority {
			return int(x.config.Priority - y.config.Priority)
		}
		return int(x.seq) - int(y.seq)
	})
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = slices.Delete(b.subs, i, i+1)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// PublishTopic wraps payload in a new envelope and publishes it.
func (b *Bus) PublishTopic(ctx context.Context, t Topic, payload any) error {
	return b.Publish(ctx, NewEnvelope(t, payload, b.source))
}

// Publish delivers env to every matching subscription in priority order.
// It returns the joined handler errors.
func (b *Bus) Publish(ctx context.Context, env Envelope) error {
	if !env.Topic.Valid() || env.Topic.IsPattern() {
		return ErrInvalidTopic
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	b.published.Add(1)

	var errs []error
	for _, sub := range subs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if !sub.shouldDeliver(env) {
			continue
		}
		if sub.config.Once && !sub.cancelled.CompareAndSwap(false, true) {
			continue
		}

		sub.delivered.Add(1)
		if err := b.deliver(ctx, sub, env); err != nil {
			errs = append(errs, err)
		} else {
			b.delivered.Add(1)
		}

		if sub.config.Once {
			_ = b.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, sub *Subscription, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			b.logger.Error("event handler panicked",
				zap.String("topic", env.Topic.String()),
				zap.String("subscription", sub.id),
				zap.Any("panic", r),
			)
			err = &PanicError{SubscriptionID: sub.id, Topic: env.Topic, Value: r}
		}
	}()

	if herr := sub.handler.Handle(ctx, env); herr != nil {
		b.errs.Add(1)
		b.logger.Warn("event handler failed",
			zap.String("topic", env.Topic.String()),
			zap.String("subscription", sub.id),
			zap.Error(herr),
		)
		return &HandlerError{SubscriptionID: sub.id, Topic: env.Topic, Err: herr}
	}
	return nil
}

// Close drops every subscription. Later calls fail with ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		s.Cancel()
	}
	b.subs = nil
	b.closed = true
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, s := range b.subs {
		if s.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   b.delivered.Load(),
		HandlerErrors:     b.errs.Load(),
		HandlerPanics:     b.panics.Load(),
		ActiveSubscribers: active,
	}
}
