package domain

import (
	"fmt"

	"github.com/aretw0/excelauto/pkg/address"
)

// Range is an inclusive rectangle of cells, 1-based.
type Range struct {
	FirstRow uint32 `json:"first_row" mapstructure:"first_row"`
	FirstCol uint32 `json:"first_column" mapstructure:"first_column"`
	LastRow  uint32 `json:"last_row" mapstructure:"last_row"`
	LastCol  uint32 `json:"last_column" mapstructure:"last_column"`
}

// Validate checks that both corners are real cells and the range is not inverted.
func (r Range) Validate() error {
	if _, err := address.New(r.FirstRow, r.FirstCol); err != nil {
		return fmt.Errorf("%w: first cell (%d,%d)", ErrInvalidRange, r.FirstRow, r.FirstCol)
	}
	if _, err := address.New(r.LastRow, r.LastCol); err != nil {
		return fmt.Errorf("%w: last cell (%d,%d)", ErrInvalidRange, r.LastRow, r.LastCol)
	}
	if r.LastRow < r.FirstRow || r.LastCol < r.FirstCol {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidRange, r.last(), r.first())
	}
	return nil
}

// Rows returns the number of rows covered.
func (r Range) Rows() int { return int(r.LastRow-r.FirstRow) + 1 }

// Cols returns the number of columns covered.
func (r Range) Cols() int { return int(r.LastCol-r.FirstCol) + 1 }

// String renders the range as "A1:C3".
func (r Range) String() string {
	return r.first() + ":" + r.last()
}

func (r Range) first() string { return address.Address{Row: r.FirstRow, Col: r.FirstCol}.String() }
func (r Range) last() string  { return address.Address{Row: r.LastRow, Col: r.LastCol}.String() }
