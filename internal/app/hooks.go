package app

import (
	"go.uber.org/zap"

	"github.com/dshills/typewriter/internal/event"
	"github.com/dshills/typewriter/internal/typing"
)

// busHooks publishes every engine hook on the event bus.
func (a *Application) busHooks() typing.Hooks {
	return typing.Hooks{
		OnBegin:                a.instanceEvent(event.TopicBegin),
		OnComplete:             a.instanceEvent(event.TopicComplete),
		OnLastStringBackspaced: a.instanceEvent(event.TopicLastBackspaced),
		OnReset:                a.instanceEvent(event.TopicReset),
		OnDestroy:              a.instanceEvent(event.TopicDestroy),

		PreStringTyped:  a.posEvent(event.TopicPreStringTyped),
		OnStringTyped:   a.posEvent(event.TopicStringTyped),
		OnTypingPaused:  a.posEvent(event.TopicPaused),
		OnTypingResumed: a.posEvent(event.TopicResumed),
		OnStop:          a.posEvent(event.TopicStop),
		OnStart:         a.posEvent(event.TopicStart),
	}
}

func (a *Application) instanceEvent(topic event.Topic) func(*typing.Typed) {
	return func(t *typing.Typed) {
		a.publish(topic, typingPayload(t, t.ArrayPos()))
	}
}

func (a *Application) posEvent(topic event.Topic) func(int, *typing.Typed) {
	return func(arrayPos int, t *typing.Typed) {
		a.publish(topic, typingPayload(t, arrayPos))
	}
}

func typingPayload(t *typing.Typed, arrayPos int) event.TypingPayload {
	return event.TypingPayload{
		EngineID:    t.ID(),
		State:       t.State().String(),
		ArrayPos:    arrayPos,
		StringIndex: t.StringIndex(),
		StrPos:      t.StrPos(),
		CurLoop:     t.CurLoop(),
		Text:        t.Text(),
	}
}

func (a *Application) publish(topic event.Topic, payload any) {
	if err := a.bus.PublishTopic(a.eventCtx, topic, payload); err != nil {
		a.logger.Debug("event delivery failed", zap.Stringer("topic", topic), zap.Error(err))
	}
}
