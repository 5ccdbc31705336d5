package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrNotConfigured = errors.New("database not configured")

	// Panel view errors
	ErrInvalidPanelView = errors.New("panel view needs a panel id and outcome")
)
