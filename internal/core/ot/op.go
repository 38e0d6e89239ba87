// Package ot implements the operation model and operational transform for
// collaborative plain-text editing. Operations are pure values; positions and
// lengths are byte offsets into UTF-8 content and must land on code point
// boundaries
package ot

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	perr "coedit/internal/platform/errors"
)

// Kind discriminates the operation variants
type Kind string

const (
	// KindInsert inserts Text at Position
	KindInsert Kind = "insert"
	// KindDelete removes Length bytes starting at Position
	KindDelete Kind = "delete"
	// KindReplace removes Length bytes at Position and inserts Text there
	KindReplace Kind = "replace"
)

// Operation is a single text mutation with authoring metadata
// Position and Length are byte offsets; Text is the inserted bytes
// (new_text for a replace). The zero value is not a valid operation
type Operation struct {
	Kind      Kind
	Position  int
	Length    int
	Text      string
	Author    string
	Timestamp time.Time
}

// Insert builds an insert operation
func Insert(pos int, text, author string, ts time.Time) Operation {
	return Operation{Kind: KindInsert, Position: pos, Text: text, Author: author, Timestamp: ts}
}

// Delete builds a delete operation
func Delete(pos, length int, author string, ts time.Time) Operation {
	return Operation{Kind: KindDelete, Position: pos, Length: length, Author: author, Timestamp: ts}
}

// Replace builds a replace operation (delete Length bytes, insert Text)
func Replace(pos, length int, text, author string, ts time.Time) Operation {
	return Operation{Kind: KindReplace, Position: pos, Length: length, Text: text, Author: author, Timestamp: ts}
}

// Noop reports whether the operation has zero net effect
func (o Operation) Noop() bool {
	switch o.Kind {
	case KindInsert:
		return o.Text == ""
	case KindDelete:
		return o.Length == 0
	case KindReplace:
		return o.Length == 0 && o.Text == ""
	}
	return true
}

// Delta returns the net change in content length the operation produces
func (o Operation) Delta() int {
	switch o.Kind {
	case KindInsert:
		return len(o.Text)
	case KindDelete:
		return -o.Length
	case KindReplace:
		return len(o.Text) - o.Length
	}
	return 0
}

// end returns the exclusive end of the affected range for delete/replace
func (o Operation) end() int { return o.Position + o.Length }

// Validate checks the operation against content of length contentLen and the
// given byte string for code point boundaries. Returns InvalidPosition when
// the range falls outside the content and InvalidBoundary when a position
// would split a multi-byte code point
func (o Operation) Validate(content string) error {
	L := len(content)
	switch o.Kind {
	case KindInsert:
		if o.Position < 0 || o.Position > L {
			return perr.InvalidPositionf("insert position %d outside content of %d bytes", o.Position, L)
		}
		if !boundary(content, o.Position) {
			return perr.InvalidBoundaryf("insert position %d splits a code point", o.Position)
		}
		if !utf8.ValidString(o.Text) {
			return perr.InvalidBoundaryf("insert text is not valid UTF-8")
		}
	case KindDelete, KindReplace:
		if o.Position < 0 || o.Length < 0 || o.end() > L {
			return perr.InvalidPositionf("%s range [%d,%d) outside content of %d bytes", o.Kind, o.Position, o.end(), L)
		}
		if !boundary(content, o.Position) || !boundary(content, o.end()) {
			return perr.InvalidBoundaryf("%s range [%d,%d) splits a code point", o.Kind, o.Position, o.end())
		}
		if o.Kind == KindReplace && !utf8.ValidString(o.Text) {
			return perr.InvalidBoundaryf("replace text is not valid UTF-8")
		}
	default:
		return perr.InvalidArgf("unknown operation kind %q", string(o.Kind))
	}
	return nil
}

// Apply validates and applies the operation to content, returning the new
// content. The input is never mutated
func Apply(content string, o Operation) (string, error) {
	if err := o.Validate(content); err != nil {
		return "", err
	}
	switch o.Kind {
	case KindInsert:
		return content[:o.Position] + o.Text + content[o.Position:], nil
	case KindDelete:
		return content[:o.Position] + content[o.end():], nil
	case KindReplace:
		return content[:o.Position] + o.Text + content[o.end():], nil
	}
	return "", perr.InvalidArgf("unknown operation kind %q", string(o.Kind))
}

// ApplyAll applies ops in order, failing fast on the first invalid one
func ApplyAll(content string, ops []Operation) (string, error) {
	var err error
	for _, op := range ops {
		content, err = Apply(content, op)
		if err != nil {
			return "", err
		}
	}
	return content, nil
}

// boundary reports whether p lands on a code point boundary of s
// a position is a boundary when it is at either end or the byte there is not
// a UTF-8 continuation byte
func boundary(s string, p int) bool {
	if p == 0 || p == len(s) {
		return true
	}
	return s[p]&0xC0 != 0x80
}

// wireOp is the JSON shape shared by all three variants
type wireOp struct {
	Kind      string    `json:"kind"`
	Position  uint64    `json:"position"`
	Text      *string   `json:"text,omitempty"`
	Length    *uint64   `json:"length,omitempty"`
	OldLength *uint64   `json:"old_length,omitempty"`
	NewText   *string   `json:"new_text,omitempty"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalJSON emits the wire shape for the variant
// insert: {"kind":"insert","position":p,"text":s,...}
// delete: {"kind":"delete","position":p,"length":n,...}
// replace: {"kind":"replace","position":p,"old_length":n,"new_text":s,...}
func (o Operation) MarshalJSON() ([]byte, error) {
	w := wireOp{
		Kind:      string(o.Kind),
		Position:  uint64(o.Position),
		Author:    o.Author,
		Timestamp: o.Timestamp,
	}
	switch o.Kind {
	case KindInsert:
		t := o.Text
		w.Text = &t
	case KindDelete:
		n := uint64(o.Length)
		w.Length = &n
	case KindReplace:
		n := uint64(o.Length)
		t := o.Text
		w.OldLength = &n
		w.NewText = &t
	default:
		return nil, fmt.Errorf("ot: cannot marshal operation kind %q", string(o.Kind))
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire shape back into an Operation
func (o *Operation) UnmarshalJSON(b []byte) error {
	var w wireOp
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Operation{
		Kind:      Kind(w.Kind),
		Position:  int(w.Position),
		Author:    w.Author,
		Timestamp: w.Timestamp,
	}
	switch out.Kind {
	case KindInsert:
		if w.Text == nil {
			return fmt.Errorf("ot: insert requires text")
		}
		out.Text = *w.Text
	case KindDelete:
		if w.Length == nil {
			return fmt.Errorf("ot: delete requires length")
		}
		out.Length = int(*w.Length)
	case KindReplace:
		if w.OldLength == nil || w.NewText == nil {
			return fmt.Errorf("ot: replace requires old_length and new_text")
		}
		out.Length = int(*w.OldLength)
		out.Text = *w.NewText
	default:
		return fmt.Errorf("ot: unknown operation kind %q", w.Kind)
	}
	*o = out
	return nil
}
