package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoWorkbook is returned when an operation needs a workbook but the session has none selected.
var ErrNoWorkbook = errors.New("no workbook selected; open or create one first")

// ErrSheetNotFound is returned when the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidRange is returned for ranges with zero or inverted bounds.
var ErrInvalidRange = errors.New("invalid range")

// ErrUnsupportedValue is returned when a cell value has a type that cannot be stored.
var ErrUnsupportedValue = errors.New("unsupported cell value type")

// ErrBatchTooLarge is returned when an instruction batch exceeds the configured limit.
var ErrBatchTooLarge = errors.New("instruction batch too large")

// ErrOutOfGrid is returned when a cell address lies outside the worksheet grid.
var ErrOutOfGrid = errors.New("cell outside the worksheet grid")
