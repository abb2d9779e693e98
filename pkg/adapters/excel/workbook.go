package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/xuri/excelize/v2"
)

// Workbook is an open .xlsx file. It is not safe for concurrent use; callers
// serialize access per path (see session.Manager).
type Workbook struct {
	f    *excelize.File
	path string
}

// Create writes an empty workbook at path. The parent directory must exist.
func Create(path string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to create workbook %q: %w", path, err)
	}
	return nil
}

// Open opens an existing workbook.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string {
	return w.path
}

// Sheets lists the worksheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.f.GetSheetList()
}

// Sheet returns the named worksheet.
// Returns domain.ErrSheetNotFound if it does not exist.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrSheetNotFound, name)
	}
	return &Sheet{f: w.f, name: name}, nil
}

// Save writes the workbook back to its path.
func (w *Workbook) Save() error {
	if err := w.f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", w.path, err)
	}
	return nil
}

// Close releases the workbook's temporary resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheet is one worksheet of an open Workbook.
type Sheet struct {
	f    *excelize.File
	name string
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Value reads a cell as nil (empty), bool, int64, float64 or string.
func (s *Sheet) Value(row, col uint32) (any, error) {
	cell, err := address.Encode(row, col)
	if err != nil {
		return nil, err
	}
	raw, err := s.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s!%s: %w", s.name, cell, err)
	}
	if raw == "" {
		return nil, nil
	}
	typ, err := s.f.GetCellType(s.name, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to read type of %s!%s: %w", s.name, cell, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError, excelize.CellTypeDate:
		return raw, nil
	}
	return parseNumber(raw), nil
}

// SetValue writes nil (clears the value), bool, integers, floats or strings.
func (s *Sheet) SetValue(row, col uint32, v any) error {
	cell, err := address.Encode(row, col)
	if err != nil {
		return err
	}
	v, err = domain.NormalizeValue(v)
	if err != nil {
		return fmt.Errorf("%s!%s: %w", s.name, cell, err)
	}
	if v == nil {
		err = s.f.SetCellDefault(s.name, cell, "")
	} else {
		err = s.f.SetCellValue(s.name, cell, v)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", s.name, cell, err)
	}
	return nil
}

// parseNumber returns int64 for integral values, float64 for decimals, or
// the original string.
func parseNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// CheckBounds rejects ranges that fall outside the worksheet grid.
func CheckBounds(r domain.Range) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.LastRow > excelize.TotalRows || r.LastCol > excelize.MaxColumns {
		return fmt.Errorf("%w: %s exceeds the worksheet limits (%d rows, %d columns)",
			domain.ErrInvalidRange, r, excelize.TotalRows, excelize.MaxColumns)
	}
	return nil
}
