package models

// Note is a free-text record. Locked notes are stored in plaintext like any
// other note; the flag only asks the UI to verify the PIN before showing
// the description.
type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"desc,omitempty"`
	Locked      bool   `json:"locked"`
}

func (n Note) RecordID() string          { return n.ID }
func (n Note) RecordTitle() string       { return n.Title }
func (n Note) RecordDescription() string { return n.Description }

// Notes have no date; date ordering keeps them in input order.
func (n Note) RecordDate() string { return "" }

// Redacted returns a copy with the description hidden when the note is locked.
func (n Note) Redacted() Note {
	if n.Locked {
		n.Description = ""
	}
	return n
}
