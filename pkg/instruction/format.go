package instruction

import "strings"

// Format renders e in canonical instruction syntax. Content containing a
// quote or an '@' cannot be represented and is emitted verbatim.
func Format(e Edit) string {
	var b strings.Builder
	if e.Content != nil {
		b.WriteByte(quote)
		b.WriteString(*e.Content)
		b.WriteByte(quote)
	}
	b.WriteByte(delimiters[fieldAddress])
	b.WriteString(e.Address.String())
	if t := e.Style.tokens(); t != "" {
		b.WriteByte(delimiters[fieldStyle])
		b.WriteString(t)
	}
	if e.Foreground != nil {
		b.WriteByte(delimiters[fieldForeground])
		b.WriteString(e.Foreground.Hex())
	}
	if e.Background != nil {
		b.WriteByte(delimiters[fieldBackground])
		b.WriteString(e.Background.Hex())
	}
	return b.String()
}
