package domain

import "time"

// Session is the per-client state of the workbook service: which workbook
// subsequent calls operate on.
type Session struct {
	ID           string    `json:"id"`
	WorkbookPath string    `json:"workbook_path"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSession creates a session pointing at the given workbook.
func NewSession(id, workbookPath string) *Session {
	return &Session{
		ID:           id,
		WorkbookPath: workbookPath,
		UpdatedAt:    time.Now().UTC(),
	}
}
