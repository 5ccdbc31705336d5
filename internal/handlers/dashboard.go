package handlers

import (
	"github.com/gofiber/fiber/v3"

	"mediadash/internal/config"
	"mediadash/internal/panel"
	"mediadash/internal/render"
	"mediadash/internal/validation"
)

// PanelView is the template model of one rendered panel.
type PanelView struct {
	Panel    config.PanelConfig
	Controls panel.Controls
	Artifact *render.Artifact
	Error    string

	Columns []string
	Rows    [][]string

	ChartTypes []panel.ChartType
	Categories []panel.Category
	Years      []int
	TopNMin    int
	TopNMax    int
}

// SectionView is the template model of one dashboard section.
type SectionView struct {
	Section config.SectionConfig
	Panels  []PanelView
}

// DashboardHandler renders the dashboard page.
type DashboardHandler struct {
	cfg      *config.Config
	layout   *config.DashboardConfig
	pipeline *panel.Pipeline
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(cfg *config.Config, layout *config.DashboardConfig, pipeline *panel.Pipeline) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, layout: layout, pipeline: pipeline}
}

// Index renders every section with the session's controls. A failing panel
// shows its error in place and the rest still render.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	sections := make([]SectionView, 0, len(h.layout.Sections))
	for _, s := range h.layout.Sections {
		sv := SectionView{Section: s}
		for _, p := range s.Panels {
			sv.Panels = append(sv.Panels, h.panelView(c, p, controlsFor(c, p.ID)))
		}
		sections = append(sections, sv)
	}

	return c.Render("dashboard", MergeBranding(c, fiber.Map{
		"Title":    h.cfg.SiteTitle,
		"Sections": sections,
	}, h.cfg))
}

func (h *DashboardHandler) panelView(c fiber.Ctx, p config.PanelConfig, ctl panel.Controls) PanelView {
	v := PanelView{
		Panel:    p,
		Controls: ctl,
		TopNMin:  validation.MinTopN,
		TopNMax:  validation.MaxTopN,
	}
	switch p.Kind {
	case config.KindKeywordSummary:
		v.ChartTypes = []panel.ChartType{panel.ChartLine, panel.ChartBar, panel.ChartRaw}
	case config.KindEntityCloud:
		v.Categories = []panel.Category{panel.Individuals, panel.Organizations}
	case config.KindYearHistogram:
		for y := validation.MinYear; y <= validation.MaxYear; y++ {
			v.Years = append(v.Years, y)
		}
	}

	a, err := h.pipeline.Render(c.Context(), p, ctl)
	if err != nil {
		v.Error = panelMessage(err)
		return v
	}
	v.Artifact = a
	if a.Table != nil {
		v.Columns = a.Table.ColumnNames()
		for i := 0; i < a.Table.Len(); i++ {
			v.Rows = append(v.Rows, a.Table.Row(i))
		}
	}
	return v
}
