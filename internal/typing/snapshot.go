package typing

import (
	"github.com/tidwall/sjson"
)

// Snapshot is a point-in-time copy of the engine's introspection state.
type Snapshot struct {
	ID             string
	State          State
	StrPos         int
	ArrayPos       int
	StringIndex    int
	CurLoop        int
	Sequence       []int
	TypingComplete bool
	TemporaryPause bool
	CursorBlinking bool
	StopNum        int
	Text           string
}

// Snapshot captures the current state.
func (t *Typed) Snapshot() Snapshot {
	return Snapshot{
		ID:             t.id,
		State:          t.state,
		StrPos:         t.strPos,
		ArrayPos:       t.seq.Index(),
		StringIndex:    t.seq.StringIndex(),
		CurLoop:        t.seq.CurLoop(),
		Sequence:       t.seq.Order(),
		TypingComplete: t.typingComplete,
		TemporaryPause: t.temporaryPause,
		CursorBlinking: t.cursorBlinking,
		StopNum:        t.stopNum,
		Text:           t.Text(),
	}
}

// JSON encodes the snapshot as a JSON object.
func (s Snapshot) JSON() ([]byte, error) {
	doc := []byte(`{}`)

	sets := []struct {
		path  string
		value any
	}{
		{"id", s.ID},
		{"state", s.State.String()},
		{"str_pos", s.StrPos},
		{"array_pos", s.ArrayPos},
		{"string_index", s.StringIndex},
		{"cur_loop", s.CurLoop},
		{"sequence", s.Sequence},
		{"typing_complete", s.TypingComplete},
		{"temporary_pause", s.TemporaryPause},
		{"cursor_blinking", s.CursorBlinking},
		{"stop_num", s.StopNum},
		{"text", s.Text},
	}

	var err error
	for _, kv := range sets {
		doc, err = sjson.SetBytes(doc, kv.path, kv.value)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
