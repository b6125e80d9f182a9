package models

// Task is a to-do entry. ID is the creation timestamp in milliseconds,
// rendered as a decimal string.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"desc,omitempty"`
	Date        string `json:"date,omitempty"` // DD/MM/YYYY, free text
	Alarm       bool   `json:"alarm"`
}

func (t Task) RecordID() string          { return t.ID }
func (t Task) RecordTitle() string       { return t.Title }
func (t Task) RecordDescription() string { return t.Description }
func (t Task) RecordDate() string        { return t.Date }

// Kind identifies one of the two record collections.
type Kind string

const (
	KindTask Kind = "task"
	KindNote Kind = "note"
)
