// Package event provides a synchronous publish/subscribe bus for
// typewriter lifecycle events.
//
// Topics are dot separated ("typing.string.typed"). Subscriptions use
// glob patterns matched with github.com/tidwall/match, so "typing.*"
// receives every typing event and "*" receives everything.
//
// Delivery is synchronous: Publish returns after every matching handler
// ran, in priority order. Handler errors and panics are collected and
// returned, never swallowed.
//
//	bus := event.NewBus(event.WithLogger(logger))
//	sub, _ := bus.SubscribeFunc("typing.*", func(ctx context.Context, env event.Envelope) error {
//	    fmt.Println(env.Topic)
//	    return nil
//	})
//	defer bus.Unsubscribe(sub)
//	bus.PublishTopic(ctx, event.TopicBegin, event.TypingPayload{})
package event
