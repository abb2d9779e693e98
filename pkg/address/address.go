package address

import (
	"errors"
	"math"
	"strconv"
)

// ErrInvalid is returned when a reference or coordinate pair does not name a real cell.
var ErrInvalid = errors.New("invalid cell address")

// Address is a 1-based cell coordinate. A zero field means "unset".
type Address struct {
	Row uint32 `json:"row"`
	Col uint32 `json:"col"`
}

// New validates a coordinate pair.
func New(row, col uint32) (Address, error) {
	if row == 0 || col == 0 {
		return Address{}, ErrInvalid
	}
	return Address{Row: row, Col: col}, nil
}

// Valid reports whether both coordinates are strictly positive.
func (a Address) Valid() bool {
	return a.Row > 0 && a.Col > 0
}

// String renders the address in A1 form, or "" when invalid.
func (a Address) String() string {
	s, _ := Encode(a.Row, a.Col)
	return s
}

// Encode renders (row, col) as an A1 reference, e.g. (1, 28) -> "AB1".
func Encode(row, col uint32) (string, error) {
	if row == 0 || col == 0 {
		return "", ErrInvalid
	}
	return ColumnLetters(col) + strconv.FormatUint(uint64(row), 10), nil
}

// ColumnLetters converts a 1-based column number to its letters (1 -> "A", 27 -> "AA").
// Zero yields "".
func ColumnLetters(col uint32) string {
	// 7 letters cover the whole uint32 range.
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		rem := col % 26
		if rem == 0 {
			// No zero digit: borrow one from the next place and emit Z.
			i--
			buf[i] = 'Z'
			col = col/26 - 1
			continue
		}
		i--
		buf[i] = byte('A' + rem - 1)
		col /= 26
	}
	return string(buf[i:])
}

// ColumnNumber converts column letters (case-insensitive) to a 1-based number.
func ColumnNumber(letters string) (uint32, error) {
	if letters == "" {
		return 0, ErrInvalid
	}
	var col uint64
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if !isLetter(c) {
			return 0, ErrInvalid
		}
		col = col*26 + uint64(upper(c)-'A'+1)
		if col > math.MaxUint32 {
			return 0, ErrInvalid
		}
	}
	return uint32(col), nil
}

// Decode parses an A1 reference. The scan is lenient: ASCII letters are
// collected into the column, ASCII digits into the row, and any other byte
// is dropped, so "A 1" and "A1" decode identically.
func Decode(ref string) (Address, error) {
	letters := make([]byte, 0, len(ref))
	digits := make([]byte, 0, len(ref))
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case isLetter(c):
			letters = append(letters, c)
		case isDigit(c):
			digits = append(digits, c)
		}
	}
	if len(letters) == 0 || len(digits) == 0 {
		return Address{}, ErrInvalid
	}

	row, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return Address{}, ErrInvalid
	}
	col, err := ColumnNumber(string(letters))
	if err != nil {
		return Address{}, err
	}
	return New(uint32(row), col)
}

// MustEncode is like Encode but panics on invalid input. Intended for tests
// and constant tables.
func MustEncode(row, col uint32) string {
	s, err := Encode(row, col)
	if err != nil {
		panic(err)
	}
	return s
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
