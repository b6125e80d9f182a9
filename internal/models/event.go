package models

import "time"

// Change actions published on the event feed.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionClear  = "clear"
	ActionPIN    = "pin"
	ActionTheme  = "theme"
)

// ChangeEvent is the message payload for Kafka. It deliberately carries no
// record content and no PIN.
type ChangeEvent struct {
	EventID  string    `json:"event_id"`
	Action   string    `json:"action"`
	Kind     Kind      `json:"kind,omitempty"`
	RecordID string    `json:"record_id,omitempty"`
	At       time.Time `json:"at"`
}
