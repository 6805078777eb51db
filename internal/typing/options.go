package typing

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/typewriter/internal/humanize"
)

// ContentType selects how strings are interpreted.
type ContentType string

const (
	// ContentHTML treats markup tags and entities as single characters.
	ContentHTML ContentType = "html"

	// ContentPlain types every character literally.
	ContentPlain ContentType = "null"
)

// ParseContentType converts a configuration value to a ContentType.
// "plain" and the empty string are accepted as ContentPlain.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return ContentHTML, nil
	case "null", "plain", "text", "":
		return ContentPlain, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, s)
	}
}

// Attribute targets.
const (
	// AttrText writes to the text content of the target.
	AttrText = ""

	// AttrTitle writes to the window title.
	AttrTitle = "title"
)

// Option defaults.
const (
	DefaultBackDelay    = 700 * time.Millisecond
	DefaultFadeOutDelay = 500 * time.Millisecond
	DefaultFadeOutClass = "typed-fade-out"
	DefaultCursorChar   = "|"
)

// Options configures a Typed instance. Options are copied at construction
// and never change afterwards. Start from DefaultOptions; the zero value
// disables smart backspace and the cursor.
type Options struct {
	// Strings are typed in order (or shuffled). Required.
	Strings []string

	// TypeSpeed is the delay before each typed character.
	TypeSpeed humanize.Speed

	// BackSpeed is the delay before each removed character.
	BackSpeed humanize.Speed

	// StartDelay is the delay before the first character of a pass.
	StartDelay time.Duration

	// BackDelay is the delay between finishing a string and removing it.
	BackDelay time.Duration

	// SmartBackspace keeps the prefix shared with the next string.
	SmartBackspace bool

	// Shuffle visits the strings in a new random order every pass.
	Shuffle bool

	// FadeOut fades the string out instead of backspacing it.
	FadeOut bool

	// FadeOutClass names the fade style for sinks that use one.
	FadeOutClass string

	// FadeOutDelay is how long the fade lasts before the text is cleared.
	FadeOutDelay time.Duration

	// Loop repeats the sequence.
	Loop bool

	// LoopCount limits the number of passes. Zero or less loops forever.
	LoopCount int

	// ShowCursor displays the cursor.
	ShowCursor bool

	// CursorChar is the cursor glyph.
	CursorChar string

	// AutoInsertCSS lets the sink animate cursor blink and fade itself.
	AutoInsertCSS bool

	// Attr selects the target attribute; AttrText or AttrTitle.
	Attr string

	// BindInputFocusEvents stops typing on focus and resumes on blur.
	BindInputFocusEvents bool

	// ContentType selects html or plain interpretation.
	ContentType ContentType

	// Hooks are the lifecycle callbacks.
	Hooks Hooks
}

// DefaultOptions returns the documented defaults with no strings.
func DefaultOptions() Options {
	return Options{
		BackDelay:      DefaultBackDelay,
		SmartBackspace: true,
		FadeOutClass:   DefaultFadeOutClass,
		FadeOutDelay:   DefaultFadeOutDelay,
		ShowCursor:     true,
		CursorChar:     DefaultCursorChar,
		AutoInsertCSS:  true,
		ContentType:    ContentHTML,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if len(o.Strings) == 0 {
		return &ConfigError{Field: "strings", Err: ErrNoStrings}
	}

	speeds := []struct {
		field string
		speed humanize.Speed
	}{
		{"type_speed", o.TypeSpeed},
		{"back_speed", o.BackSpeed},
	}
	for _, s := range speeds {
		if s.speed.IsNegative() {
			return &ConfigError{Field: s.field, Err: ErrNegativeDuration}
		}
	}

	delays := []struct {
		field string
		delay time.Duration
	}{
		{"start_delay", o.StartDelay},
		{"back_delay", o.BackDelay},
		{"fade_out_delay", o.FadeOutDelay},
	}
	for _, d := range delays {
		if d.delay < 0 {
			return &ConfigError{Field: d.field, Err: ErrNegativeDuration}
		}
	}

	switch o.ContentType {
	case "", ContentHTML, ContentPlain:
	default:
		return &ConfigError{Field: "content_type", Err: fmt.Errorf("%w: %q", ErrInvalidContentType, o.ContentType)}
	}

	return nil
}

// InfiniteLoop reports whether looping has no pass limit.
func (o Options) InfiniteLoop() bool {
	return o.Loop && o.LoopCount <= 0
}

// clone copies o. An unset content type becomes ContentHTML.
func (o Options) clone() Options {
	o.Strings = append([]string(nil), o.Strings...)
	if o.ContentType == "" {
		o.ContentType = ContentHTML
	}
	return o
}
