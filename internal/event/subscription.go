package event

import (
	"context"
	"sync/atomic"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that must observe events first.
	PriorityCritical Priority = 0

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// Handler is the interface for event handlers.
type Handler interface {
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, env Envelope) error {
	return f(ctx, env)
}

// FilterFunc decides whether an envelope is delivered.
type FilterFunc func(env Envelope) bool

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Filter is an optional predicate to filter events.
	Filter FilterFunc

	// Once indicates the subscription should auto-cancel after the first event.
	Once bool
}

// SubscriptionOption is a function that configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce sets the subscription to auto-cancel after the first event.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// Subscription is a registered handler.
type Subscription struct {
	id      string
	pattern Topic
	handler Handler
	config  SubscriptionConfig
	seq     uint64

	cancelled atomic.Bool
	delivered atomic.Uint64
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Pattern returns the subscribed topic pattern.
func (s *Subscription) Pattern() Topic { return s.pattern }

// Config returns the subscription configuration.
func (s *Subscription) Config() SubscriptionConfig { return s.config }

// Delivered returns the number of envelopes handed to the handler.
func (s *Subscription) Delivered() uint64 { return s.delivered.Load() }

// IsActive reports whether the subscription still receives events.
func (s *Subscription) IsActive() bool { return !s.cancelled.Load() }

// Cancel stops delivery. The bus drops cancelled subscriptions lazily.
func (s *Subscription) Cancel() { s.cancelled.Store(true) }

func (s *Subscription) shouldDeliver(env Envelope) bool {
	if s.cancelled.Load() || !env.Topic.Matches(s.pattern) {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(env)
}
