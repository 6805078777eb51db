package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func forwardAll(s *Script) []string {
	var out []string
	for pos := 0; pos < s.Len(); {
		pos, _ = s.Forward(pos)
		out = append(out, s.Text(pos))
	}
	return out
}

func backwardAll(s *Script) []string {
	var out []string
	for pos := s.Len(); pos > 0; {
		pos = s.Backward(pos)
		out = append(out, s.Text(pos))
	}
	return out
}

func TestCompileScript(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		ct       ContentType
		rendered string
		forward  []string
		backward []string
	}{
		{
			name:     "plain",
			src:      "abc",
			ct:       ContentHTML,
			rendered: "abc",
			forward:  []string{"a", "ab", "abc"},
			backward: []string{"ab", "a", ""},
		},
		{
			name:     "pause marker removed",
			src:      "a^250bc",
			ct:       ContentHTML,
			rendered: "abc",
			forward:  []string{"a", "ab", "abc"},
			backward: []string{"ab", "a", ""},
		},
		{
			name:     "caret without digits is literal",
			src:      "a^b",
			ct:       ContentPlain,
			rendered: "a^b",
			forward:  []string{"a", "a^", "a^b"},
			backward: []string{"a^", "a", ""},
		},
		{
			name:     "backtick chunk",
			src:      "x`yz`",
			ct:       ContentHTML,
			rendered: "xyz",
			forward:  []string{"x", "xyz"},
			backward: []string{"xy", "x", ""},
		},
		{
			name:     "unclosed backtick is literal",
			src:      "a`b",
			ct:       ContentHTML,
			rendered: "a`b",
			forward:  []string{"a", "a`", "a`b"},
			backward: []string{"a`", "a", ""},
		},
		{
			name:     "html tag atomic",
			src:      "<i>a</i>",
			ct:       ContentHTML,
			rendered: "<i>a</i>",
			forward:  []string{"<i>", "<i>a", "<i>a</i>"},
			backward: []string{"<i>a", "<i>", ""},
		},
		{
			name:     "entity atomic",
			src:      "a&amp;b",
			ct:       ContentHTML,
			rendered: "a&amp;b",
			forward:  []string{"a", "a&amp;", "a&amp;b"},
			backward: []string{"a&amp;", "a", ""},
		},
		{
			name:     "bare ampersand",
			src:      "a & b",
			ct:       ContentHTML,
			rendered: "a & b",
			forward:  []string{"a", "a ", "a &", "a & ", "a & b"},
			backward: []string{"a & ", "a &", "a ", "a", ""},
		},
		{
			name:     "unclosed tag is literal",
			src:      "1<2",
			ct:       ContentHTML,
			rendered: "1<2",
			forward:  []string{"1", "1<", "1<2"},
			backward: []string{"1<", "1", ""},
		},
		{
			name:     "tag inside chunk",
			src:      "`<b>x</b>`",
			ct:       ContentHTML,
			rendered: "<b>x</b>",
			forward:  []string{"<b>x</b>"},
			backward: []string{"<b>x", "<b>", ""},
		},
		{
			name:     "plain content keeps tags literal",
			src:      "<b>",
			ct:       ContentPlain,
			rendered: "<b>",
			forward:  []string{"<", "<b", "<b>"},
			backward: []string{"<b", "<", ""},
		},
		{
			name:     "multibyte runes",
			src:      "héé",
			ct:       ContentHTML,
			rendered: "héé",
			forward:  []string{"h", "hé", "héé"},
			backward: []string{"hé", "h", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CompileScript(tt.src, tt.ct)
			assert.Equal(t, tt.src, s.Source())
			assert.Equal(t, tt.rendered, s.String())
			assert.Equal(t, tt.forward, forwardAll(s))
			assert.Equal(t, tt.backward, backwardAll(s))
		})
	}
}

func TestCompileScriptNormalises(t *testing.T) {
	// "e" followed by a combining acute accent composes to one rune.
	s := CompileScript("e\u0301", ContentPlain)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "\u00e9", s.String())
}

func TestScriptPauses(t *testing.T) {
	s := CompileScript("^100a^20^30b^400", ContentHTML)

	end, pause := s.Forward(0)
	assert.Equal(t, 1, end)
	assert.Equal(t, 100*time.Millisecond, pause)

	end, pause = s.Forward(1)
	assert.Equal(t, 2, end)
	assert.Equal(t, 50*time.Millisecond, pause)

	end, pause = s.Forward(2)
	assert.Equal(t, 2, end)
	assert.Zero(t, pause)

	assert.Equal(t, 400*time.Millisecond, s.TrailingPause())
}

func TestScriptForwardMidChunk(t *testing.T) {
	s := CompileScript("^50`abcd`", ContentHTML)

	end, pause := s.Forward(0)
	assert.Equal(t, 4, end)
	assert.Equal(t, 50*time.Millisecond, pause)

	end, pause = s.Forward(2)
	assert.Equal(t, 4, end)
	assert.Zero(t, pause, "a step resumed mid-way skips its pause")
}

func TestScriptSnap(t *testing.T) {
	s := CompileScript("<b>ab</b>", ContentHTML)

	assert.Equal(t, 0, s.Snap(0))
	assert.Equal(t, 0, s.Snap(2))
	assert.Equal(t, 3, s.Snap(3))
	assert.Equal(t, 4, s.Snap(4))
	assert.Equal(t, 5, s.Snap(7))
	assert.Equal(t, 9, s.Snap(9))
	assert.Equal(t, 9, s.Snap(20))
}

func TestScriptSharedPrefix(t *testing.T) {
	tests := []struct {
		current, next string
		want          int
	}{
		{"hello", "help", 3},
		{"hello", "hello", 5},
		{"abc", "xyz", 0},
		{"", "abc", 0},
		{"<b>one</b>", "<b>two</b>", 3},
		{"<b>x", "<br>", 0},
		{"a&amp;b", "a&amp;c", 6},
		{"a&amp;b", "a&amb;c", 1},
	}

	for _, tt := range tests {
		cur := CompileScript(tt.current, ContentHTML)
		next := CompileScript(tt.next, ContentHTML)
		assert.Equal(t, tt.want, cur.SharedPrefix(next), "%q -> %q", tt.current, tt.next)
	}
}

func TestScriptTextBounds(t *testing.T) {
	s := CompileScript("abc", ContentPlain)
	assert.Equal(t, "", s.Text(-1))
	assert.Equal(t, "abc", s.Text(10))
	assert.Equal(t, 0, s.Backward(0))
}
