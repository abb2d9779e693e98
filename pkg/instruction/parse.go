package instruction

import (
	"strings"

	"github.com/aretw0/excelauto/pkg/address"
)

const quote = '\''

// field identifies an anchored field. The order is the grammar order: a
// field ends at the nearest anchor of a later field.
type field int

const (
	fieldAddress field = iota
	fieldStyle
	fieldForeground
	fieldBackground
	numFields
)

var delimiters = [numFields]byte{'@', '#', '$', '%'}

// anchors holds the byte offset of each field's delimiter, -1 when absent.
type anchors [numFields]int

// locate finds the anchors of s. The address anchor is the first '@'
// anywhere, even one inside the quoted content; the other anchors are only
// looked up at or after it, so '#', '$' and '%' in the content never open a
// field.
func locate(s string) anchors {
	var a anchors
	for i := range a {
		a[i] = -1
	}
	at := strings.IndexByte(s, delimiters[fieldAddress])
	if at < 0 {
		return a
	}
	a[fieldAddress] = at
	for f := fieldStyle; f < numFields; f++ {
		a[f] = indexFrom(s, delimiters[f], at)
	}
	return a
}

// value returns the text of field f: from just past its anchor to the
// nearest later-field anchor positioned after it, or the end of s.
func (a anchors) value(s string, f field) (string, bool) {
	start := a[f]
	if start < 0 {
		return "", false
	}
	end := len(s)
	for g := f + 1; g < numFields; g++ {
		if p := a[g]; p > start && p < end {
			end = p
		}
	}
	return s[start+1 : end], true
}

// content extracts the text between the first two quotes, or nil when
// there is no complete segment.
func content(s string) *string {
	open := strings.IndexByte(s, quote)
	if open < 0 {
		return nil
	}
	closing := indexFrom(s, quote, open+1)
	if closing < 0 {
		return nil
	}
	c := s[open+1 : closing]
	return &c
}

// Parse parses a single instruction. Rejections are *ParseError values
// wrapping ErrMissingAddress or ErrInvalidAddress.
func Parse(s string) (Edit, error) {
	text := content(s)
	a := locate(s)

	ref, ok := a.value(s, fieldAddress)
	if !ok {
		return Edit{}, &ParseError{Instruction: s, Err: ErrMissingAddress}
	}
	addr, err := address.Decode(ref)
	if err != nil {
		return Edit{}, &ParseError{Instruction: s, Address: ref, Err: ErrInvalidAddress}
	}

	e := Edit{Address: addr, Content: text}
	if v, ok := a.value(s, fieldStyle); ok && v != "" {
		e.Style = ParseStyle(v)
	}
	if v, ok := a.value(s, fieldForeground); ok && v != "" {
		c := ParseColor(v)
		e.Foreground = &c
	}
	if v, ok := a.value(s, fieldBackground); ok && v != "" {
		c := ParseColor(v)
		e.Background = &c
	}
	return e, nil
}

func indexFrom(s string, c byte, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}
