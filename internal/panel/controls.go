package panel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mediadash/internal/validation"
)

// ErrInvalidControl is returned for a control value outside its allowed set.
var ErrInvalidControl = errors.New("invalid control value")

// ChartType selects how a keyword summary is drawn.
type ChartType string

const (
	ChartLine ChartType = "Line"
	ChartBar  ChartType = "Bar"
	ChartRaw  ChartType = "Raw"
)

// Category selects which named entities an entity cloud shows.
type Category string

const (
	Individuals   Category = "Individuals"
	Organizations Category = "Organizations"
)

// Label returns the NER label the category filters on.
func (c Category) Label() string {
	if c == Organizations {
		return "B-ORG"
	}
	return "B-PER"
}

// Control names, also used as form and query keys.
const (
	NameChartType = "chart_type"
	NameCategory  = "category"
	NameTopN      = "top_n"
	NameStartYear = "start_year"
	NameEndYear   = "end_year"
	NameShowTable = "show_table"
)

// ControlNames lists every control name in display order.
var ControlNames = []string{NameChartType, NameCategory, NameTopN, NameStartYear, NameEndYear, NameShowTable}

// ControlID returns the page-wide identifier of one control of a panel.
// Panel IDs are unique and may not contain dots, so IDs never collide.
func ControlID(panelID, name string) string {
	return panelID + "." + name
}

// Controls are the user-adjustable parameters of one panel.
type Controls struct {
	ChartType ChartType `json:"chart_type"`
	Category  Category  `json:"category"`
	TopN      int       `json:"top_n"`
	StartYear int       `json:"start_year"`
	EndYear   int       `json:"end_year"`
	ShowTable bool      `json:"show_table"`
}

// Defaults returns the initial controls of every panel.
func Defaults() Controls {
	return Controls{
		ChartType: ChartLine,
		Category:  Individuals,
		TopN:      50,
		StartYear: validation.MinYear,
		EndYear:   validation.MaxYear,
		ShowTable: false,
	}
}

// Validate checks every control against its allowed values. A start year
// after the end year is valid and selects an empty range.
func (c Controls) Validate() error {
	switch c.ChartType {
	case ChartLine, ChartBar, ChartRaw:
	default:
		return fmt.Errorf("%w: chart type %q", ErrInvalidControl, c.ChartType)
	}
	switch c.Category {
	case Individuals, Organizations:
	default:
		return fmt.Errorf("%w: category %q", ErrInvalidControl, c.Category)
	}
	if ok, msg := validation.ValidateTopN(c.TopN); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidControl, msg)
	}
	if ok, msg := validation.ValidateYear(c.StartYear); !ok {
		return fmt.Errorf("%w: start %s", ErrInvalidControl, msg)
	}
	if ok, msg := validation.ValidateYear(c.EndYear); !ok {
		return fmt.Errorf("%w: end %s", ErrInvalidControl, msg)
	}
	return nil
}

// Apply overrides controls with any values returned by get, which is usually
// a form or query lookup. Empty values keep the current setting. The result
// is validated.
func (c Controls) Apply(get func(name string) string) (Controls, error) {
	out := c
	if v := strings.TrimSpace(get(NameChartType)); v != "" {
		out.ChartType = parseChartType(v)
	}
	if v := strings.TrimSpace(get(NameCategory)); v != "" {
		out.Category = parseCategory(v)
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{NameTopN, &out.TopN},
		{NameStartYear, &out.StartYear},
		{NameEndYear, &out.EndYear},
	} {
		v := strings.TrimSpace(get(f.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s must be a whole number", ErrInvalidControl, f.name)
		}
		*f.dst = n
	}
	if v := strings.TrimSpace(get(NameShowTable)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil && v != "on" {
			return c, fmt.Errorf("%w: %s must be true or false", ErrInvalidControl, NameShowTable)
		}
		out.ShowTable = b || v == "on"
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

func parseChartType(v string) ChartType {
	for _, ct := range []ChartType{ChartLine, ChartBar, ChartRaw} {
		if strings.EqualFold(v, string(ct)) {
			return ct
		}
	}
	return ChartType(v)
}

func parseCategory(v string) Category {
	for _, c := range []Category{Individuals, Organizations} {
		if strings.EqualFold(v, string(c)) {
			return c
		}
	}
	switch strings.ToUpper(v) {
	case "B-PER":
		return Individuals
	case "B-ORG":
		return Organizations
	}
	return Category(v)
}
