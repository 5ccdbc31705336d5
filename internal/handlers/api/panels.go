package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"mediadash/internal/config"
	"mediadash/internal/models"
	"mediadash/internal/panel"
)

// PanelsHandler exposes the panel catalogue and computed panel data as JSON.
type PanelsHandler struct {
	layout   *config.DashboardConfig
	pipeline *panel.Pipeline
	logger   *slog.Logger
}

// NewPanelsHandler creates a new API panels handler.
func NewPanelsHandler(layout *config.DashboardConfig, pipeline *panel.Pipeline, logger *slog.Logger) *PanelsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PanelsHandler{layout: layout, pipeline: pipeline, logger: logger}
}

// PanelData is the response body of the data endpoint.
type PanelData struct {
	*panel.Data
	Table *models.TableData `json:"table,omitempty"`
}

// List returns every panel with its control IDs and image URL.
func (h *PanelsHandler) List(c fiber.Ctx) error {
	summaries := []models.PanelSummary{}
	for _, s := range h.layout.Sections {
		for _, p := range s.Panels {
			summaries = append(summaries, models.PanelSummary{
				ID:      p.ID,
				Section: s.ID,
				Kind:    p.Kind,
				Title:   p.Title,
				Outlet:  p.Outlet,
				Topic:   p.Topic,
				Dataset: p.Dataset,
				Controls: models.ControlIDs{
					ChartType: panel.ControlID(p.ID, panel.NameChartType),
					Category:  panel.ControlID(p.ID, panel.NameCategory),
					TopN:      panel.ControlID(p.ID, panel.NameTopN),
					StartYear: panel.ControlID(p.ID, panel.NameStartYear),
					EndYear:   panel.ControlID(p.ID, panel.NameEndYear),
					ShowTable: panel.ControlID(p.ID, panel.NameShowTable),
				},
				ImageURL: "/panels/" + p.ID + "/image.png",
			})
		}
	}
	return jsonSuccess(c, fiber.Map{
		"panels":   summaries,
		"defaults": panel.Defaults(),
	})
}

// Data computes one panel for the controls given in the query string. The
// API is stateless: missing controls take their defaults, not session values.
func (h *PanelsHandler) Data(c fiber.Ctx) error {
	p, ok := h.layout.Panel(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "panel not found")
	}

	ctl, err := panel.Defaults().Apply(func(name string) string { return c.Query(name) })
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	d, err := h.pipeline.Compute(c.Context(), *p, ctl)
	if err != nil {
		if errors.Is(err, panel.ErrInvalidControl) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Warn("panel data failed", "panel", p.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute panel data")
	}

	resp := PanelData{Data: d}
	if rows := d.Rows(); rows != nil && (ctl.ShowTable || ctl.ChartType == panel.ChartRaw) {
		td := &models.TableData{Rows: [][]string{}}
		for _, col := range rows.Columns() {
			td.Columns = append(td.Columns, models.ColumnData{Name: col.Name, Kind: col.Kind.String()})
		}
		for i := 0; i < rows.Len(); i++ {
			td.Rows = append(td.Rows, rows.Row(i))
		}
		resp.Table = td
	}
	return jsonSuccess(c, resp)
}
