package ports

// CellWriter is the set of cell mutations an instruction can request.
// Coordinates are 1-based. Implementations may reject writes (for example
// when the sheet disappeared) by returning an error.
type CellWriter interface {
	SetCellText(row, col uint32, text string) error
	// SetCellAlignment sets the horizontal and vertical alignment. An empty
	// vertical value keeps the current vertical alignment.
	SetCellAlignment(row, col uint32, horizontal, vertical string) error
	SetCellBold(row, col uint32, on bool) error
	SetCellItalic(row, col uint32, on bool) error
	SetCellUnderline(row, col uint32, on bool) error
	SetCellFontColor(row, col uint32, r, g, b uint8) error
	SetCellBackgroundColor(row, col uint32, r, g, b uint8) error
}
