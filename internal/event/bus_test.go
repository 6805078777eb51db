package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, b *Bus, pattern Topic, opts ...SubscriptionOption) (*Subscription, *[]Topic) {
	t.Helper()
	var got []Topic
	sub, err := b.SubscribeFunc(pattern, func(_ context.Context, env Envelope) error {
		got = append(got, env.Topic)
		return nil
	}, opts...)
	require.NoError(t, err)
	return sub, &got
}

func TestPublishMatchesGlobs(t *testing.T) {
	b := NewBus(WithLogger(zaptest.NewLogger(t)))
	ctx := context.Background()

	_, all := collect(t, b, "*")
	_, typing := collect(t, b, "typing.*")
	_, strs := collect(t, b, "typing.string.*")
	_, exact := collect(t, b, TopicComplete)

	for _, topic := range []Topic{TopicBegin, TopicStringTyped, TopicComplete, TopicSourceReloaded} {
		require.NoError(t, b.PublishTopic(ctx, topic, TypingPayload{}))
	}

	assert.Equal(t, []Topic{TopicBegin, TopicStringTyped, TopicComplete, TopicSourceReloaded}, *all)
	assert.Equal(t, []Topic{TopicBegin, TopicStringTyped, TopicComplete}, *typing)
	assert.Equal(t, []Topic{TopicStringTyped}, *strs)
	assert.Equal(t, []Topic{TopicComplete}, *exact)

	stats := b.Stats()
	assert.Equal(t, uint64(4), stats.EventsPublished)
	assert.Equal(t, uint64(9), stats.EventsDelivered)
	assert.Equal(t, 4, stats.ActiveSubscribers)
}

func TestEnvelopeMetadata(t *testing.T) {
	b := NewBus(WithSource("test"))

	var env Envelope
	_, err := b.SubscribeFunc("*", func(_ context.Context, e Envelope) error {
		env = e
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.PublishTopic(context.Background(), TopicBegin, TypingPayload{EngineID: "e1", Text: "hi"}))
	assert.Equal(t, "test", env.Metadata.Source)
	assert.NotEmpty(t, env.Metadata.ID)
	assert.False(t, env.Metadata.Timestamp.IsZero())

	payload, ok := env.Payload.(TypingPayload)
	require.True(t, ok)
	assert.Equal(t, "e1", payload.EngineID)

	first := env.Metadata.ID
	require.NoError(t, b.PublishTopic(context.Background(), TopicBegin, nil))
	assert.NotEqual(t, first, env.Metadata.ID)
}

func TestPriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string
	add := func(name string, p Priority) {
		_, err := b.SubscribeFunc("*", func(context.Context, Envelope) error {
			order = append(order, name)
			return nil
		}, WithPriority(p))
		require.NoError(t, err)
	}
	add("low", PriorityLow)
	add("normal-1", PriorityNormal)
	add("critical", PriorityCritical)
	add("normal-2", PriorityNormal)

	require.NoError(t, b.PublishTopic(context.Background(), TopicStart, nil))
	assert.Equal(t, []string{"critical", "normal-1", "normal-2", "low"}, order)
}

func TestOnceAndFilter(t *testing.T) {
	b := NewBus()
	ctx := context.Background()

	_, once := collect(t, b, "typing.*", WithOnce())
	_, filtered := collect(t, b, "*", WithFilter(func(env Envelope) bool {
		return env.Topic.Root() == "source"
	}))

	require.NoError(t, b.PublishTopic(ctx, TopicBegin, nil))
	require.NoError(t, b.PublishTopic(ctx, TopicStop, nil))
	require.NoError(t, b.PublishTopic(ctx, TopicSourceReloaded, nil))

	assert.Equal(t, []Topic{TopicBegin}, *once)
	assert.Equal(t, []Topic{TopicSourceReloaded}, *filtered)
	assert.Equal(t, 1, b.Stats().ActiveSubscribers)
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	sub, got := collect(t, b, "*")

	require.NoError(t, b.Unsubscribe(sub))
	assert.False(t, sub.IsActive())
	assert.ErrorIs(t, b.Unsubscribe(sub), ErrSubscriptionNotFound)
	assert.ErrorIs(t, b.Unsubscribe(nil), ErrSubscriptionNotFound)

	require.NoError(t, b.PublishTopic(context.Background(), TopicBegin, nil))
	assert.Empty(t, *got)
}

func TestHandlerErrorsAndPanics(t *testing.T) {
	b := NewBus(WithLogger(zaptest.NewLogger(t)))
	boom := errors.New("boom")

	_, err := b.SubscribeFunc("*", func(context.Context, Envelope) error { return boom })
	require.NoError(t, err)
	_, err = b.SubscribeFunc("*", func(context.Context, Envelope) error { panic("bad") })
	require.NoError(t, err)
	_, got := collect(t, b, "*")

	err = b.PublishTopic(context.Background(), TopicReset, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrHandlerPanic)

	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, TopicReset, herr.Topic)

	assert.Equal(t, []Topic{TopicReset}, *got, "later handlers still run")

	stats := b.Stats()
	assert.Equal(t, uint64(1), stats.HandlerErrors)
	assert.Equal(t, uint64(1), stats.HandlerPanics)
}

func TestHandlerMayPublish(t *testing.T) {
	b := NewBus()
	ctx := context.Background()

	_, err := b.SubscribeFunc(TopicComplete, func(ctx context.Context, _ Envelope) error {
		return b.PublishTopic(ctx, TopicDestroy, nil)
	})
	require.NoError(t, err)
	_, got := collect(t, b, TopicDestroy)

	require.NoError(t, b.PublishTopic(ctx, TopicComplete, nil))
	assert.Equal(t, []Topic{TopicDestroy}, *got)
}

func TestValidation(t *testing.T) {
	b := NewBus()
	ctx := context.Background()

	_, err := b.Subscribe("*", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
	_, err = b.SubscribeFunc("", func(context.Context, Envelope) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidTopic)

	assert.ErrorIs(t, b.PublishTopic(ctx, "", nil), ErrInvalidTopic)
	assert.ErrorIs(t, b.PublishTopic(ctx, "typing.*", nil), ErrInvalidTopic)
	assert.ErrorIs(t, b.PublishTopic(ctx, "typing..begin", nil), ErrInvalidTopic)
}

func TestCancelledContext(t *testing.T) {
	b := NewBus()
	_, got := collect(t, b, "*")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.PublishTopic(ctx, TopicBegin, nil), context.Canceled)
	assert.Empty(t, *got)
}

func TestClose(t *testing.T) {
	b := NewBus()
	sub, _ := collect(t, b, "*")

	b.Close()
	assert.False(t, sub.IsActive())
	assert.ErrorIs(t, b.PublishTopic(context.Background(), TopicBegin, nil), ErrBusClosed)
	_, err := b.SubscribeFunc("*", func(context.Context, Envelope) error { return nil })
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestTopic(t *testing.T) {
	assert.True(t, TopicStringTyped.Matches("typing.*"))
	assert.True(t, TopicStringTyped.Matches("*.typed"))
	assert.False(t, TopicSourceReloaded.Matches("typing.*"))
	assert.Equal(t, []string{"typing", "string", "typed"}, TopicStringTyped.Segments())
	assert.Equal(t, "typing", TopicBegin.Root())
	assert.True(t, Topic("typing.*").IsPattern())
	assert.False(t, TopicBegin.IsPattern())
	assert.Len(t, AllTopics, 13)
}
