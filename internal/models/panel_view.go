package models

import "time"

// Panel render outcome constants
const (
	OutcomeRendered = "rendered"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// PanelView represents a per-panel render count by outcome.
type PanelView struct {
	PanelID    string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}

// PanelViewKey identifies one counter of PanelView.
type PanelViewKey struct {
	PanelID string
	Outcome string
}
