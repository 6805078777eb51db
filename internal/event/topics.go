package event

import (
	"strings"

	"github.com/tidwall/match"
)

// Topic is a dot separated event name, or a glob pattern in
// subscriptions.
type Topic string

// Typing lifecycle topics.
const (
	TopicBegin          Topic = "typing.begin"
	TopicComplete       Topic = "typing.complete"
	TopicPreStringTyped Topic = "typing.string.pre"
	TopicStringTyped    Topic = "typing.string.typed"
	TopicLastBackspaced Topic = "typing.last.backspaced"
	TopicPaused         Topic = "typing.paused"
	TopicResumed        Topic = "typing.resumed"
	TopicReset          Topic = "typing.reset"
	TopicStop           Topic = "typing.stop"
	TopicStart          Topic = "typing.start"
	TopicDestroy        Topic = "typing.destroy"
)

// Source topics.
const (
	TopicSourceReloaded Topic = "source.reloaded"
	TopicSourceError    Topic = "source.error"
)

// AllTopics lists every topic published by the application.
var AllTopics = []Topic{
	TopicBegin,
	TopicComplete,
	TopicPreStringTyped,
	TopicStringTyped,
	TopicLastBackspaced,
	TopicPaused,
	TopicResumed,
	TopicReset,
	TopicStop,
	TopicStart,
	TopicDestroy,
	TopicSourceReloaded,
	TopicSourceError,
}

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// IsPattern reports whether t contains glob characters.
func (t Topic) IsPattern() bool {
	return match.IsPattern(string(t))
}

// Matches reports whether t matches the glob pattern.
func (t Topic) Matches(pattern Topic) bool {
	if pattern == t {
		return true
	}
	return match.Match(string(t), string(pattern))
}

// Segments splits the topic on dots.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// Root returns the first segment ("typing" for "typing.begin").
func (t Topic) Root() string {
	s, _, _ := strings.Cut(string(t), ".")
	return s
}

// Valid reports whether t is usable as a topic or pattern.
func (t Topic) Valid() bool {
	if t == "" || strings.HasPrefix(string(t), ".") || strings.HasSuffix(string(t), ".") {
		return false
	}
	return !strings.Contains(string(t), "..")
}
