package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"mediadash/internal/config"
	"mediadash/internal/panel"
	"mediadash/internal/render"
)

// PanelHandler serves per-panel control updates, images and exports.
type PanelHandler struct {
	cfg       *config.Config
	layout    *config.DashboardConfig
	pipeline  *panel.Pipeline
	dashboard *DashboardHandler
	logger    *slog.Logger
}

// NewPanelHandler creates a new panel handler.
func NewPanelHandler(cfg *config.Config, layout *config.DashboardConfig, pipeline *panel.Pipeline, logger *slog.Logger) *PanelHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PanelHandler{
		cfg:       cfg,
		layout:    layout,
		pipeline:  pipeline,
		dashboard: NewDashboardHandler(cfg, layout, pipeline),
		logger:    logger,
	}
}

func (h *PanelHandler) lookup(c fiber.Ctx) (config.PanelConfig, error) {
	p, ok := h.layout.Panel(c.Params("id"))
	if !ok {
		return config.PanelConfig{}, fiber.NewError(fiber.StatusNotFound, "panel not found")
	}
	return *p, nil
}

// UpdateControls stores new control values for one panel in the session and
// re-renders it. HTMX requests get the panel partial, others a redirect.
func (h *PanelHandler) UpdateControls(c fiber.Ctx) error {
	p, err := h.lookup(c)
	if err != nil {
		if isHTMX(c) {
			return htmxError(c, "Panel not found.")
		}
		return err
	}

	ctl, err := controlsFor(c, p.ID).Apply(func(name string) string { return c.FormValue(name) })
	if err != nil {
		if isHTMX(c) {
			return htmxError(c, err.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := saveControls(c, p.ID, &ctl); err != nil {
		return err
	}

	return h.respond(c, p, ctl)
}

// Reset restores one panel's default controls.
func (h *PanelHandler) Reset(c fiber.Ctx) error {
	p, err := h.lookup(c)
	if err != nil {
		return err
	}
	if err := saveControls(c, p.ID, nil); err != nil {
		return err
	}
	return h.respond(c, p, panel.Defaults())
}

func (h *PanelHandler) respond(c fiber.Ctx, p config.PanelConfig, ctl panel.Controls) error {
	if !isHTMX(c) {
		return c.Redirect().To("/#" + p.ID)
	}
	return c.Render("partials/panel", h.dashboard.panelView(c, p, ctl), "")
}

// requestControls layers query values over the session's controls.
func requestControls(c fiber.Ctx, panelID string) (panel.Controls, error) {
	return controlsFor(c, panelID).Apply(func(name string) string { return c.Query(name) })
}

// Image serves the panel as PNG. Failures are answered with a labeled
// placeholder image so <img> tags never break.
func (h *PanelHandler) Image(c fiber.Ctx) error {
	size := render.Size{Width: h.cfg.ChartWidth, Height: h.cfg.ChartHeight}

	p, err := h.lookup(c)
	if err != nil {
		return h.placeholder(c, fiber.StatusNotFound, "Unknown panel", "Panel not found", size)
	}

	ctl, err := requestControls(c, p.ID)
	if err != nil {
		return h.placeholder(c, fiber.StatusBadRequest, p.Title, err.Error(), size)
	}

	a, err := h.pipeline.Render(c.Context(), p, ctl)
	if err != nil {
		return h.placeholder(c, panelStatus(err), p.Title, panelMessage(err), size)
	}
	if len(a.PNG) == 0 {
		// Raw table views have no image
		return h.placeholder(c, fiber.StatusOK, p.Title, "Raw data view. Download the table instead.", size)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(a.PNG)
}

func (h *PanelHandler) placeholder(c fiber.Ctx, status int, title, message string, size render.Size) error {
	a, err := render.Blank(title, message, size)
	if err != nil {
		h.logger.Error("failed to render placeholder", "error", err)
		return fiber.NewError(status, message)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(status).Send(a.PNG)
}

// Export downloads the panel's filtered rows as an xlsx workbook.
func (h *PanelHandler) Export(c fiber.Ctx) error {
	p, err := h.lookup(c)
	if err != nil {
		return err
	}

	ctl, err := requestControls(c, p.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	data, err := h.pipeline.Export(c.Context(), p, ctl)
	if err != nil {
		h.logger.Warn("panel export failed", "panel", p.ID, "error", err)
		return fiber.NewError(panelStatus(err), panelMessage(err))
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment(p.ID + ".xlsx")
	return c.Send(data)
}
