package instruction

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aretw0/excelauto/pkg/address"
)

// Alignment is a horizontal alignment override.
type Alignment int

const (
	AlignUnset Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(text []byte) error {
	for _, v := range []Alignment{AlignUnset, AlignLeft, AlignCenter, AlignRight} {
		if string(text) == v.String() {
			*a = v
			return nil
		}
	}
	return fmt.Errorf("unknown alignment %q", text)
}

// Toggle is a tri-state font attribute override.
type Toggle int

const (
	Unset Toggle = iota
	Enable
	Disable
)

func (t Toggle) String() string {
	switch t {
	case Enable:
		return "enable"
	case Disable:
		return "disable"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Toggle) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Toggle) UnmarshalText(text []byte) error {
	for _, v := range []Toggle{Unset, Enable, Disable} {
		if string(text) == v.String() {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("unknown toggle %q", text)
}

// Bool returns the override value and whether one was given.
func (t Toggle) Bool() (value, ok bool) {
	return t == Enable, t != Unset
}

// Style holds the style overrides of one instruction. Zero fields leave the
// cell's current state untouched.
type Style struct {
	Align     Alignment `json:"align,omitempty"`
	Bold      Toggle    `json:"bold,omitempty"`
	Italic    Toggle    `json:"italic,omitempty"`
	Underline Toggle    `json:"underline,omitempty"`
}

// IsZero reports whether the style carries no override at all.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// ParseColor decodes a six hex digit string ("FF8800"). Anything else
// decodes to black.
func ParseColor(s string) Color {
	if len(s) != 6 {
		return Color{}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}
	}
	return Color{R: b[0], G: b[1], B: b[2]}
}

// Hex renders the colour as six upper-case hex digits.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with ParseColor's leniency.
func (c *Color) UnmarshalText(text []byte) error {
	*c = ParseColor(strings.TrimPrefix(string(text), "#"))
	return nil
}

// Edit is the parsed form of one instruction.
type Edit struct {
	Address address.Address `json:"address"`
	// Content is nil when the instruction carried no quoted segment.
	// A non-nil empty string clears the cell.
	Content    *string `json:"content,omitempty"`
	Style      Style   `json:"style"`
	Foreground *Color  `json:"foreground,omitempty"`
	Background *Color  `json:"background,omitempty"`
}

// Ref returns the A1 form of the target address.
func (e Edit) Ref() string {
	return e.Address.String()
}
