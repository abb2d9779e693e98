package excel

import (
	"fmt"

	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/ports"
	"github.com/xuri/excelize/v2"
)

var _ ports.CellWriter = (*Sheet)(nil)

// SetCellText stores text as a string cell, even when it looks numeric.
func (s *Sheet) SetCellText(row, col uint32, text string) error {
	cell, err := address.Encode(row, col)
	if err != nil {
		return err
	}
	return s.f.SetCellStr(s.name, cell, text)
}

func (s *Sheet) SetCellAlignment(row, col uint32, horizontal, vertical string) error {
	return s.updateStyle(row, col, func(st *excelize.Style) {
		if st.Alignment == nil {
			st.Alignment = &excelize.Alignment{}
		}
		st.Alignment.Horizontal = horizontal
		if vertical != "" {
			st.Alignment.Vertical = vertical
		}
	})
}

func (s *Sheet) SetCellBold(row, col uint32, on bool) error {
	return s.updateFont(row, col, func(f *excelize.Font) { f.Bold = on })
}

func (s *Sheet) SetCellItalic(row, col uint32, on bool) error {
	return s.updateFont(row, col, func(f *excelize.Font) { f.Italic = on })
}

func (s *Sheet) SetCellUnderline(row, col uint32, on bool) error {
	return s.updateFont(row, col, func(f *excelize.Font) {
		f.Underline = ""
		if on {
			f.Underline = "single"
		}
	})
}

func (s *Sheet) SetCellFontColor(row, col uint32, r, g, b uint8) error {
	return s.updateFont(row, col, func(f *excelize.Font) { f.Color = hexColor(r, g, b) })
}

func (s *Sheet) SetCellBackgroundColor(row, col uint32, r, g, b uint8) error {
	return s.updateStyle(row, col, func(st *excelize.Style) {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(r, g, b)}}
	})
}

func (s *Sheet) updateFont(row, col uint32, fn func(*excelize.Font)) error {
	return s.updateStyle(row, col, func(st *excelize.Style) {
		if st.Font == nil {
			st.Font = &excelize.Font{}
		}
		fn(st.Font)
	})
}

// updateStyle reads the cell's current style, applies fn and stores the
// result as a new style, so earlier formatting of the cell is preserved.
func (s *Sheet) updateStyle(row, col uint32, fn func(*excelize.Style)) error {
	cell, err := address.Encode(row, col)
	if err != nil {
		return err
	}
	idx, err := s.f.GetCellStyle(s.name, cell)
	if err != nil {
		return fmt.Errorf("failed to read style of %s!%s: %w", s.name, cell, err)
	}
	st, err := s.f.GetStyle(idx)
	if err != nil {
		return fmt.Errorf("failed to load style %d: %w", idx, err)
	}
	fn(st)
	id, err := s.f.NewStyle(st)
	if err != nil {
		return fmt.Errorf("failed to create style for %s!%s: %w", s.name, cell, err)
	}
	return s.f.SetCellStyle(s.name, cell, cell, id)
}

func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
