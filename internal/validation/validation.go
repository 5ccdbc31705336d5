package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PanelIDPattern defines the valid panel ID format: lowercase alphanumeric,
// hyphens, underscores, starting with a letter or digit.
var PanelIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Control bounds shared by every panel.
const (
	MinTopN  = 10
	MaxTopN  = 100
	MinYear  = 2000
	MaxYear  = 2023
	maxIDLen = 64
)

// ValidatePanelID checks if a panel ID matches the allowed pattern.
func ValidatePanelID(id string) bool {
	if id == "" || len(id) > maxIDLen {
		return false
	}
	return PanelIDPattern.MatchString(id)
}

// ValidateDatasetPath checks that a dataset path is a relative .csv path that
// stays inside the data directory.
// This prevents absolute paths and ../ traversal out of DATA_DIR.
func ValidateDatasetPath(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "dataset is required"
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return false, "dataset must be relative to the data directory"
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || strings.HasPrefix(clean, "../") {
		return false, "dataset must stay inside the data directory"
	}
	if !strings.EqualFold(filepath.Ext(clean), ".csv") {
		return false, "dataset must be a .csv file"
	}
	return true, ""
}

// ValidateTopN checks the number of entities shown in a ranking.
func ValidateTopN(n int) (bool, string) {
	if n < MinTopN || n > MaxTopN {
		return false, fmt.Sprintf("top N must be between %d and %d", MinTopN, MaxTopN)
	}
	return true, ""
}

// ValidateYear checks a year bound of the year range controls.
func ValidateYear(year int) (bool, string) {
	if year < MinYear || year > MaxYear {
		return false, fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear)
	}
	return true, ""
}
