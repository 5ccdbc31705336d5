package handlers

import (
	"errors"
	"html"

	"github.com/gofiber/fiber/v3"

	"mediadash/internal/dataset"
	"mediadash/internal/frequency"
	"mediadash/internal/panel"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="p-3 rounded-lg bg-red-50 text-red-700 text-sm">` + html.EscapeString(message) + `</div>`,
	)
}

func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// panelStatus maps a pipeline error to an HTTP status.
func panelStatus(err error) int {
	if errors.Is(err, panel.ErrInvalidControl) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// panelMessage is the text shown in place of a panel that failed to render.
func panelMessage(err error) string {
	switch {
	case errors.Is(err, panel.ErrInvalidControl):
		return err.Error()
	case errors.Is(err, dataset.ErrDataLoad):
		return "The dataset for this panel could not be loaded."
	case errors.Is(err, frequency.ErrAggregation), errors.Is(err, dataset.ErrColumnKind):
		return "The dataset for this panel holds values that are not whole numbers."
	case errors.Is(err, dataset.ErrUnknownColumn):
		return "The dataset for this panel is missing a required column."
	default:
		return "This panel could not be rendered."
	}
}
