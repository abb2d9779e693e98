package tui

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

//go:embed grammar.md
var grammar string

// Grammar returns the instruction grammar reference as markdown.
func Grammar() string { return grammar }

// NewRenderer returns a function that renders markdown using glamour.
// Terminals get an auto-detected style; anything else gets plain output.
func NewRenderer(w io.Writer) (func(string) (string, error), error) {
	opt := glamour.WithStandardStyle("notty")
	if IsTerminal(w) {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render, nil
}

// PrintGrammar renders the grammar reference to w.
func PrintGrammar(w io.Writer) error {
	render, err := NewRenderer(w)
	if err != nil {
		return err
	}
	out, err := render(grammar)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
