package typing

import (
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Script is a compiled string. Pause markers and back-ticks are removed
// from the rendered text; positions are rune offsets into that text.
//
// A string is typed in steps and removed in units. A step is one rune, one
// markup tag or entity in html mode, or a whole back-ticked segment. A
// unit is one rune or, in html mode, one tag or entity.
type Script struct {
	source   string
	text     []rune
	bounds   []int
	steps    []scriptStep
	trailing time.Duration
}

type scriptStep struct {
	start int
	end   int
	pause time.Duration
}

const (
	pauseMarker = '^'
	chunkMarker = '`'
)

// CompileScript compiles s for the given content type.
func CompileScript(s string, ct ContentType) *Script {
	c := &scriptCompiler{
		src:  []rune(norm.NFC.String(s)),
		html: ct == ContentHTML,
	}
	c.script = &Script{source: s, bounds: []int{0}}
	c.compile()
	return c.script
}

type scriptCompiler struct {
	src    []rune
	html   bool
	script *Script
	pause  time.Duration
}

func (c *scriptCompiler) compile() {
	for i := 0; i < len(c.src); {
		r := c.src[i]

		if r == pauseMarker {
			if ms, n := c.pauseAt(i); n > 0 {
				c.pause += time.Duration(ms) * time.Millisecond
				i += n
				continue
			}
		}

		if r == chunkMarker {
			if end := c.indexFrom(i+1, chunkMarker); end > i {
				c.chunk(c.src[i+1 : end])
				i = end + 1
				continue
			}
		}

		n := c.unitLen(c.src, i)
		start := len(c.script.text)
		c.emitUnit(c.src[i : i+n])
		c.emitStep(start)
		i += n
	}
	c.script.trailing = c.pause
}

// pauseAt parses "^N" at i and returns N and the marker length.
func (c *scriptCompiler) pauseAt(i int) (int, int) {
	j := i + 1
	for j < len(c.src) && c.src[j] >= '0' && c.src[j] <= '9' {
		j++
	}
	if j == i+1 {
		return 0, 0
	}
	ms, err := strconv.Atoi(string(c.src[i+1 : j]))
	if err != nil {
		return 0, 0
	}
	return ms, j - i
}

func (c *scriptCompiler) indexFrom(from int, r rune) int {
	for j := from; j < len(c.src); j++ {
		if c.src[j] == r {
			return j
		}
	}
	return -1
}

func (c *scriptCompiler) chunk(body []rune) {
	if len(body) == 0 {
		return
	}
	start := len(c.script.text)
	for i := 0; i < len(body); {
		n := c.unitLen(body, i)
		c.emitUnit(body[i : i+n])
		i += n
	}
	c.emitStep(start)
}

// unitLen returns the length of the unit starting at src[i].
func (c *scriptCompiler) unitLen(src []rune, i int) int {
	if !c.html {
		return 1
	}
	switch src[i] {
	case '<':
		for j := i + 1; j < len(src); j++ {
			if src[j] == '>' {
				return j - i + 1
			}
			if src[j] == '<' {
				break
			}
		}
	case '&':
		for j := i + 1; j < len(src); j++ {
			r := src[j]
			if r == ';' {
				if j > i+1 {
					return j - i + 1
				}
				break
			}
			if !isEntityRune(r) {
				break
			}
		}
	}
	return 1
}

func isEntityRune(r rune) bool {
	return r == '#' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func (c *scriptCompiler) emitUnit(u []rune) {
	c.script.text = append(c.script.text, u...)
	c.script.bounds = append(c.script.bounds, len(c.script.text))
}

func (c *scriptCompiler) emitStep(start int) {
	c.script.steps = append(c.script.steps, scriptStep{
		start: start,
		end:   len(c.script.text),
		pause: c.pause,
	})
	c.pause = 0
}

// Source returns the string the script was compiled from.
func (s *Script) Source() string {
	return s.source
}

// Len returns the rendered length in runes.
func (s *Script) Len() int {
	return len(s.text)
}

// Text returns the first pos runes of the rendered text.
func (s *Script) Text(pos int) string {
	pos = max(0, min(pos, len(s.text)))
	return string(s.text[:pos])
}

// String returns the full rendered text.
func (s *Script) String() string {
	return string(s.text)
}

// Forward returns the position after the step that continues from pos,
// and the pause to wait before it. A step that starts before pos is
// completed without its pause. At the end it returns pos.
func (s *Script) Forward(pos int) (int, time.Duration) {
	i := sort.Search(len(s.steps), func(i int) bool { return s.steps[i].end > pos })
	if i == len(s.steps) {
		return pos, 0
	}
	st := s.steps[i]
	if st.start == pos {
		return st.end, st.pause
	}
	return st.end, 0
}

// Backward returns the position after removing one unit before pos.
func (s *Script) Backward(pos int) int {
	if pos <= 0 {
		return 0
	}
	i := sort.SearchInts(s.bounds, pos)
	return s.bounds[i-1]
}

// Snap returns the largest unit boundary not after pos.
func (s *Script) Snap(pos int) int {
	if pos >= len(s.text) {
		return len(s.text)
	}
	i := sort.SearchInts(s.bounds, pos)
	if i < len(s.bounds) && s.bounds[i] == pos {
		return pos
	}
	return s.bounds[i-1]
}

// TrailingPause returns the pause embedded after the last character.
func (s *Script) TrailingPause() time.Duration {
	return s.trailing
}

// SharedPrefix returns the length of the rendered prefix s and next have
// in common, reduced to a unit boundary of both.
func (s *Script) SharedPrefix(next *Script) int {
	n := SharedPrefixLength(s.String(), next.String())
	for {
		m := next.Snap(s.Snap(n))
		if m == n {
			return n
		}
		n = m
	}
}
