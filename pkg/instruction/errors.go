package instruction

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAddress is returned when an instruction has no '@' anchor.
	ErrMissingAddress = errors.New("missing address")
	// ErrInvalidAddress is returned when the address field does not decode to a cell.
	ErrInvalidAddress = errors.New("invalid address")
)

// ParseError describes a rejected instruction.
type ParseError struct {
	Instruction string
	// Address is the raw address field, empty for ErrMissingAddress.
	Address string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Address != "" {
		return fmt.Sprintf("instruction %q: %v %q", e.Instruction, e.Err, e.Address)
	}
	return fmt.Sprintf("instruction %q: %v", e.Instruction, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
