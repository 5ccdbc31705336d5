package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediadash/internal/dataset"
	"mediadash/internal/frequency"
	"mediadash/internal/panel"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
	}{
		{"no database configured", nil, fiber.StatusOK},
		{"database reachable", fakePinger{}, fiber.StatusOK},
		{"database down", fakePinger{err: errors.New("refused")}, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/readyz", NewProbeHandler(tt.db).Readiness)

			resp, err := app.Test(httptest.NewRequest("GET", "/readyz", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestPanelMessageAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid control", fmt.Errorf("%w: top N must be between 10 and 100", panel.ErrInvalidControl), fiber.StatusBadRequest, "top N must be between 10 and 100"},
		{"load failure", &dataset.LoadError{Path: "a.csv", Err: errors.New("missing")}, fiber.StatusInternalServerError, "could not be loaded"},
		{"aggregation", &frequency.AggregationError{Column: "Counts", Row: 2, Value: "x"}, fiber.StatusInternalServerError, "not whole numbers"},
		{"unknown column", fmt.Errorf("panel p: %w", dataset.ErrUnknownColumn), fiber.StatusInternalServerError, "missing a required column"},
		{"other", errors.New("boom"), fiber.StatusInternalServerError, "could not be rendered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, panelStatus(tt.err))
			assert.Contains(t, panelMessage(tt.err), tt.wantMsg)
		})
	}
}

func TestSessionControls(t *testing.T) {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{})
	app.Use(sessionMiddleware)

	app.Post("/save", func(c fiber.Ctx) error {
		ctl := panel.Defaults()
		ctl.TopN = 30
		if err := saveControls(c, "actors", &ctl); err != nil {
			return err
		}
		return c.SendString("ok")
	})
	app.Get("/load", func(c fiber.Ctx) error {
		return c.SendString(fmt.Sprintf("%d/%d", controlsFor(c, "actors").TopN, controlsFor(c, "other").TopN))
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/save", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("GET", "/load", nil)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "30/50", string(body))
}
