package models

// ControlIDs lists the per-panel control identifiers.
type ControlIDs struct {
	ChartType string `json:"chart_type"`
	Category  string `json:"category"`
	TopN      string `json:"top_n"`
	StartYear string `json:"start_year"`
	EndYear   string `json:"end_year"`
	ShowTable string `json:"show_table"`
}

// PanelSummary describes a panel in the catalogue endpoint.
type PanelSummary struct {
	ID       string     `json:"id"`
	Section  string     `json:"section"`
	Kind     string     `json:"kind"`
	Title    string     `json:"title"`
	Outlet   string     `json:"outlet,omitempty"`
	Topic    string     `json:"topic,omitempty"`
	Dataset  string     `json:"dataset"`
	Controls ControlIDs `json:"controls"`
	ImageURL string     `json:"image_url"`
}

// ColumnData is a table column in JSON responses.
type ColumnData struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// TableData is a raw table in JSON responses.
type TableData struct {
	Columns []ColumnData `json:"columns"`
	Rows    [][]string   `json:"rows"`
}
