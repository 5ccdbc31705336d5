package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mediadash/internal/validation"
)

// Panel kinds.
const (
	KindKeywordSummary = "keyword_summary"
	KindEntityCloud    = "entity_cloud"
	KindYearHistogram  = "year_histogram"
)

// ErrInvalidLayout is returned when the dashboard layout fails validation.
var ErrInvalidLayout = errors.New("invalid dashboard layout")

// DashboardConfig represents the structure of the dashboard layout file.
// Sections and panels are easier to manage in YAML than env vars.
type DashboardConfig struct {
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig groups panels under a heading.
type SectionConfig struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description,omitempty"`
	Panels      []PanelConfig `yaml:"panels"`
}

// PanelConfig defines one chart or word cloud and the dataset it reads.
type PanelConfig struct {
	ID      string `yaml:"id" json:"id"`
	Kind    string `yaml:"kind" json:"kind"`
	Title   string `yaml:"title" json:"title"`
	Outlet  string `yaml:"outlet,omitempty" json:"outlet,omitempty"`
	Topic   string `yaml:"topic,omitempty" json:"topic,omitempty"` // PLTS or PLTB
	Dataset string `yaml:"dataset" json:"dataset"`                 // Relative to DATA_DIR

	// keyword_summary
	KeyColumn string   `yaml:"key_column,omitempty" json:"key_column,omitempty"` // Default "Keyword"
	Series    []string `yaml:"series,omitempty" json:"series,omitempty"`         // One integer column per outlet

	// entity_cloud
	EntityColumn string `yaml:"entity_column,omitempty" json:"entity_column,omitempty"` // Default "Entity"
	LabelColumn  string `yaml:"label_column,omitempty" json:"label_column,omitempty"`   // Default "NER_Label"
	CountColumn  string `yaml:"count_column,omitempty" json:"count_column,omitempty"`   // Default "Counts"
	MinCount     int64  `yaml:"min_count,omitempty" json:"min_count,omitempty"`         // Default 1

	// year_histogram
	YearColumn string `yaml:"year_column,omitempty" json:"year_column,omitempty"` // Default "Year"
	GroupBy    string `yaml:"group_by,omitempty" json:"group_by,omitempty"`       // Stack bars by this column

	XLabel string `yaml:"x_label,omitempty" json:"x_label,omitempty"`
	YLabel string `yaml:"y_label,omitempty" json:"y_label,omitempty"`
	Note   string `yaml:"note,omitempty" json:"note,omitempty"`
}

// LoadDashboardFile loads and validates a layout file.
func LoadDashboardFile(path string) (*DashboardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Layout file is optional
			return DefaultDashboard(), nil
		}
		return nil, err
	}

	var cfg DashboardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *DashboardConfig) applyDefaults() {
	for s := range c.Sections {
		for p := range c.Sections[s].Panels {
			c.Sections[s].Panels[p].applyDefaults()
		}
	}
}

func (p *PanelConfig) applyDefaults() {
	switch p.Kind {
	case KindKeywordSummary:
		if p.KeyColumn == "" {
			p.KeyColumn = "Keyword"
		}
	case KindEntityCloud:
		if p.EntityColumn == "" {
			p.EntityColumn = "Entity"
		}
		if p.LabelColumn == "" {
			p.LabelColumn = "NER_Label"
		}
		if p.CountColumn == "" {
			p.CountColumn = "Counts"
		}
		if p.MinCount == 0 {
			p.MinCount = 1
		}
	case KindYearHistogram:
		if p.YearColumn == "" {
			p.YearColumn = "Year"
		}
	}
}

// Validate checks panel IDs are well formed and unique, kinds are known and
// every panel names a dataset inside the data directory.
func (c *DashboardConfig) Validate() error {
	if c == nil || len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidLayout)
	}
	seen := map[string]bool{}
	for _, s := range c.Sections {
		for _, p := range s.Panels {
			if !validation.ValidatePanelID(p.ID) {
				return fmt.Errorf("%w: panel id %q must match %s", ErrInvalidLayout, p.ID, validation.PanelIDPattern)
			}
			if seen[p.ID] {
				return fmt.Errorf("%w: duplicate panel id %q", ErrInvalidLayout, p.ID)
			}
			seen[p.ID] = true

			if valid, msg := validation.ValidateDatasetPath(p.Dataset); !valid {
				return fmt.Errorf("%w: panel %s: %s", ErrInvalidLayout, p.ID, msg)
			}
			switch p.Kind {
			case KindKeywordSummary:
				if len(p.Series) == 0 {
					return fmt.Errorf("%w: panel %s: keyword summary needs series columns", ErrInvalidLayout, p.ID)
				}
			case KindEntityCloud:
				if p.MinCount < 1 {
					return fmt.Errorf("%w: panel %s: min_count must be at least 1", ErrInvalidLayout, p.ID)
				}
			case KindYearHistogram:
			default:
				return fmt.Errorf("%w: panel %s: unknown kind %q", ErrInvalidLayout, p.ID, p.Kind)
			}
		}
	}
	return nil
}

// Panel finds a panel by its ID.
func (c *DashboardConfig) Panel(id string) (*PanelConfig, bool) {
	if c == nil {
		return nil, false
	}
	for s := range c.Sections {
		for p := range c.Sections[s].Panels {
			if c.Sections[s].Panels[p].ID == id {
				return &c.Sections[s].Panels[p], true
			}
		}
	}
	return nil, false
}

// Panels returns every panel in layout order.
func (c *DashboardConfig) Panels() []PanelConfig {
	if c == nil {
		return nil
	}
	var panels []PanelConfig
	for _, s := range c.Sections {
		panels = append(panels, s.Panels...)
	}
	return panels
}

// DatasetPaths returns the distinct dataset files under dataDir, in layout order.
func (c *DashboardConfig) DatasetPaths(dataDir string) []string {
	seen := map[string]bool{}
	var paths []string
	for _, p := range c.Panels() {
		path := filepath.Join(dataDir, p.Dataset)
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}
