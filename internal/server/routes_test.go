package server

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediadash/internal/config"
	"mediadash/internal/dataset"
	"mediadash/internal/panel"
	"mediadash/internal/render"
	"mediadash/internal/testutil"
	"mediadash/views"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Env:             "development",
		BaseURL:         "http://localhost:3000",
		SessionSecret:   "test-secret-that-is-long-enough-for-production",
		RateLimitMax:    1000,
		ChartWidth:      480,
		ChartHeight:     300,
		WordCloudWidth:  400,
		WordCloudHeight: 240,
		SiteTitle:       "Test Dashboard",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline := panel.NewPipeline(dataset.NewCache(), testutil.DataDir(t),
		render.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		render.Size{Width: cfg.WordCloudWidth, Height: cfg.WordCloudHeight}, logger)

	s := New(cfg, logger)
	require.NoError(t, s.RegisterRoutes(context.Background(), Deps{
		Layout:   testutil.Dashboard(t),
		Pipeline: pipeline,
	}))
	return s
}

func do(t *testing.T, s *Server, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.App.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func formRequest(path string, values url.Values, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req
}

func TestViewsEmbedded(t *testing.T) {
	for _, name := range []string{"dashboard.html", "error.html", "layouts/main.html", "partials/panel.html", "partials/table.html"} {
		_, err := fs.Stat(views.FS, name)
		assert.NoError(t, err, name)
	}
}

func TestProbes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, body := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `{"status":"ok"}`, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboardRendersEveryPanel(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, want := range []string{"Keyword Across Media", "Key Actors", "Articles", "Segments", "actors.top_n", "articles.start_year", "data:image/png;base64,"} {
		assert.Contains(t, body, want)
	}
}

func TestDashboardShowsPanelErrorInPlace(t *testing.T) {
	s := newTestServer(t)
	layout := testutil.Dashboard(t)
	layout.Sections[0].Panels[1].Dataset = "absent.csv"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline := panel.NewPipeline(dataset.NewCache(), testutil.DataDir(t),
		render.Size{Width: 480, Height: 300}, render.Size{Width: 400, Height: 240}, logger)
	s2 := New(s.Cfg, logger)
	require.NoError(t, s2.RegisterRoutes(context.Background(), Deps{Layout: layout, Pipeline: pipeline}))

	resp, body := do(t, s2, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "could not be loaded")
	assert.Contains(t, body, "Keyword Across Media", "other panels still render")
}

func TestUpdateControls_HTMXPartialAndSession(t *testing.T) {
	s := newTestServer(t)

	values := url.Values{"category": {"Organizations"}, "top_n": {"20"}}
	resp, body := do(t, s, formRequest("/panels/actors/controls", values, true))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="actors"`)
	assert.Contains(t, body, `<option value="Organizations" selected>`)
	assert.NotContains(t, body, "<html", "partial must not include the layout")

	// The session remembers the controls for the full page
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, body = do(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Top N entities: 20")
}

func TestUpdateControls_Invalid(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, formRequest("/panels/actors/controls", url.Values{"top_n": {"500"}}, true))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "top N must be between 10 and 100")

	resp, _ = do(t, s, formRequest("/panels/actors/controls", url.Values{"top_n": {"500"}}, false))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, formRequest("/panels/unknown/controls", url.Values{}, false))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateControls_RedirectWithoutHTMX(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s, formRequest("/panels/articles/controls", url.Values{"start_year": {"2018"}}, false))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#articles", resp.Header.Get("Location"))
}

func TestReset(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, formRequest("/panels/actors/reset", url.Values{}, true))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Top N entities: 50")
}

func TestImage(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"entity cloud", "/panels/actors/image.png", http.StatusOK},
		{"bar chart via query", "/panels/keywords/image.png?chart_type=Bar", http.StatusOK},
		{"empty range", "/panels/articles/image.png?start_year=2005&end_year=2010", http.StatusOK},
		{"invalid control", "/panels/actors/image.png?top_n=3", http.StatusBadRequest},
		{"unknown panel", "/panels/unknown/image.png", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, s, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
			assert.True(t, strings.HasPrefix(body, "\x89PNG"), "body is a PNG")
		})
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/panels/keywords/export.xlsx", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "keywords.xlsx")
	assert.True(t, strings.HasPrefix(body, "PK"), "xlsx is a zip archive")

	resp, _ = do(t, s, httptest.NewRequest(http.MethodGet, "/panels/unknown/export.xlsx", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func TestAPIPanels(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/panels", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	assert.Equal(t, "ok", env.Status)

	var data struct {
		Panels []struct {
			ID       string            `json:"id"`
			Controls map[string]string `json:"controls"`
		} `json:"panels"`
		Defaults panel.Controls `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Panels, 4)
	assert.Equal(t, "keywords.chart_type", data.Panels[0].Controls["chart_type"])
	assert.Equal(t, panel.Defaults(), data.Defaults)
}

func TestAPIPanelData(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/panels/actors/data?category=Organizations&show_table=true", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	var data struct {
		Entries []struct {
			Key   string `json:"key"`
			Count int64  `json:"count"`
		} `json:"entries"`
		Table struct {
			Rows [][]string `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Entries, 2)
	assert.Equal(t, "PLN", data.Entries[0].Key)
	assert.Len(t, data.Table.Rows, 2)

	resp, body = do(t, s, httptest.NewRequest(http.MethodGet, "/api/panels/actors/data?top_n=5", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	assert.Equal(t, "error", env.Status)

	resp, _ = do(t, s, httptest.NewRequest(http.MethodGet, "/api/panels/unknown/data", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
