package instruction

const (
	glyphRight  = '➡'
	glyphLeft   = '⬅'
	glyphCenter = '↔'
)

// styleChecks is evaluated in order; a later check overrides an earlier
// one for the same attribute.
var styleChecks = []struct {
	token rune
	apply func(*Style)
}{
	{glyphRight, func(s *Style) { s.Align = AlignRight }},
	{glyphLeft, func(s *Style) { s.Align = AlignLeft }},
	{glyphCenter, func(s *Style) { s.Align = AlignCenter }},
	{'B', func(s *Style) { s.Bold = Enable }},
	{'b', func(s *Style) { s.Bold = Disable }},
	{'I', func(s *Style) { s.Italic = Enable }},
	{'i', func(s *Style) { s.Italic = Disable }},
	{'U', func(s *Style) { s.Underline = Enable }},
	{'u', func(s *Style) { s.Underline = Disable }},
}

// ParseStyle decodes a style field. Token order and repetition do not
// matter; unknown runes (including emoji variation selectors) are ignored.
func ParseStyle(field string) Style {
	seen := make(map[rune]bool, len(field))
	for _, r := range field {
		seen[r] = true
	}
	var s Style
	for _, c := range styleChecks {
		if seen[c.token] {
			c.apply(&s)
		}
	}
	return s
}

// tokens renders s back to canonical style tokens.
func (s Style) tokens() string {
	var b []rune
	switch s.Align {
	case AlignRight:
		b = append(b, glyphRight)
	case AlignLeft:
		b = append(b, glyphLeft)
	case AlignCenter:
		b = append(b, glyphCenter)
	}
	b = appendToggle(b, s.Bold, 'B', 'b')
	b = appendToggle(b, s.Italic, 'I', 'i')
	b = appendToggle(b, s.Underline, 'U', 'u')
	return string(b)
}

func appendToggle(b []rune, t Toggle, on, off rune) []rune {
	switch t {
	case Enable:
		return append(b, on)
	case Disable:
		return append(b, off)
	}
	return b
}
