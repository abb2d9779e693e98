package memory

import (
	"fmt"
	"sync"

	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/aretw0/excelauto/pkg/ports"
)

var _ ports.CellWriter = (*Sheet)(nil)

// Cell is the in-memory state of one cell.
type Cell struct {
	Text       *string
	Horizontal string
	Vertical   string
	Bold       bool
	Italic     bool
	Underline  bool
	Font       *instruction.Color
	Fill       *instruction.Color
}

// Sheet is an in-memory ports.CellWriter. It keeps the resulting cell
// state and a log of every write in call order, which makes it suitable
// for dry runs and tests. Safe for concurrent use.
type Sheet struct {
	mu    sync.Mutex
	cells map[address.Address]*Cell
	ops   []string

	// FailOn makes the named operation (e.g. "bold") return an error.
	FailOn string
}

// NewSheet creates an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{cells: make(map[address.Address]*Cell)}
}

// Cell returns a copy of the cell at (row, col) and whether it was ever written.
func (s *Sheet) Cell(row, col uint32) (Cell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[address.Address{Row: row, Col: col}]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// Ops returns the write log, one "op A1 args" entry per call.
func (s *Sheet) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

// Len returns the number of cells written.
func (s *Sheet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cells)
}

func (s *Sheet) write(op string, row, col uint32, arg any, fn func(*Cell)) error {
	a, err := address.New(row, col)
	if err != nil {
		return err
	}
	if op == s.FailOn {
		return fmt.Errorf("%s %s: injected failure", op, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[a]
	if !ok {
		c = &Cell{}
		s.cells[a] = c
	}
	fn(c)
	s.ops = append(s.ops, fmt.Sprintf("%s %s %v", op, a, arg))
	return nil
}

func (s *Sheet) SetCellText(row, col uint32, text string) error {
	return s.write("text", row, col, text, func(c *Cell) { c.Text = &text })
}

func (s *Sheet) SetCellAlignment(row, col uint32, horizontal, vertical string) error {
	return s.write("align", row, col, horizontal, func(c *Cell) {
		c.Horizontal = horizontal
		if vertical != "" {
			c.Vertical = vertical
		}
	})
}

func (s *Sheet) SetCellBold(row, col uint32, on bool) error {
	return s.write("bold", row, col, on, func(c *Cell) { c.Bold = on })
}

func (s *Sheet) SetCellItalic(row, col uint32, on bool) error {
	return s.write("italic", row, col, on, func(c *Cell) { c.Italic = on })
}

func (s *Sheet) SetCellUnderline(row, col uint32, on bool) error {
	return s.write("underline", row, col, on, func(c *Cell) { c.Underline = on })
}

func (s *Sheet) SetCellFontColor(row, col uint32, r, g, b uint8) error {
	color := instruction.Color{R: r, G: g, B: b}
	return s.write("font", row, col, color.Hex(), func(c *Cell) { c.Font = &color })
}

func (s *Sheet) SetCellBackgroundColor(row, col uint32, r, g, b uint8) error {
	color := instruction.Color{R: r, G: g, B: b}
	return s.write("fill", row, col, color.Hex(), func(c *Cell) { c.Fill = &color })
}
