package renderer

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/typewriter/internal/renderer/core"
)

// Span is a run of text with uniform attributes.
type Span struct {
	Text  string
	Attrs core.Attribute
}

// ParseMarkup converts typed html into styled spans. <b> and <strong>
// are bold, <i> and <em> italic, <u> underlined and <br> a line break.
// Entities are decoded. Other tags are dropped and their text kept.
func ParseMarkup(raw string) []Span {
	var (
		spans                   []Span
		bold, italic, underline int
	)

	attrs := func() core.Attribute {
		var a core.Attribute
		if bold > 0 {
			a |= core.AttrBold
		}
		if italic > 0 {
			a |= core.AttrItalic
		}
		if underline > 0 {
			a |= core.AttrUnderline
		}
		return a
	}

	add := func(text string) {
		if text == "" {
			return
		}
		a := attrs()
		if n := len(spans); n > 0 && spans[n-1].Attrs == a {
			spans[n-1].Text += text
			return
		}
		spans = append(spans, Span{Text: text, Attrs: a})
	}

	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return spans
		case html.TextToken:
			add(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				bold++
			case "i", "em":
				italic++
			case "u":
				underline++
			case "br":
				add("\n")
			}
			if tt == html.SelfClosingTagToken {
				closeTag(string(name), &bold, &italic, &underline)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			closeTag(string(name), &bold, &italic, &underline)
		}
	}
}

func closeTag(name string, bold, italic, underline *int) {
	dec := func(n *int) {
		if *n > 0 {
			*n--
		}
	}
	switch name {
	case "b", "strong":
		dec(bold)
	case "i", "em":
		dec(italic)
	case "u":
		dec(underline)
	}
}

// PlainSpans returns raw as a single unstyled span.
func PlainSpans(raw string) []Span {
	if raw == "" {
		return nil
	}
	return []Span{{Text: raw}}
}

// SpansText concatenates the text of spans.
func SpansText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
