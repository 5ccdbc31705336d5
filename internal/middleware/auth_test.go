package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"mediadash/internal/config"
)

func TestExtractUsernameFromCN(t *testing.T) {
	tests := []struct {
		name     string
		cn       string
		expected string
	}{
		{
			name:     "standard format with name and username",
			cn:       "Heath Taylor (heatht)",
			expected: "heatht",
		},
		{
			name:     "username only in parentheses",
			cn:       "(admin)",
			expected: "admin",
		},
		{
			name:     "name with middle initial",
			cn:       "John Q. Public (jpublic)",
			expected: "jpublic",
		},
		{
			name:     "extra spaces around username",
			cn:       "Test User ( testuser )",
			expected: "testuser",
		},
		{
			name:     "no parentheses",
			cn:       "Just A Name",
			expected: "",
		},
		{
			name:     "empty string",
			cn:       "",
			expected: "",
		},
		{
			name:     "parentheses in middle not at end",
			cn:       "Name (part) More",
			expected: "",
		},
		{
			name:     "multiple parentheses takes last",
			cn:       "Name (first) (second)",
			expected: "second",
		},
		{
			name:     "nested parentheses returns empty (invalid format)",
			cn:       "Name ((nested))",
			expected: "",
		},
		{
			name:     "special characters in username",
			cn:       "User Name (user-name_123)",
			expected: "user-name_123",
		},
		{
			name:     "unicode name",
			cn:       "José García (jgarcia)",
			expected: "jgarcia",
		},
		{
			name:     "trailing whitespace after parentheses",
			cn:       "Test User (testuser)   ",
			expected: "testuser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractUsernameFromCN(tt.cn)
			if got != tt.expected {
				t.Errorf("extractUsernameFromCN(%q) = %q, want %q", tt.cn, got, tt.expected)
			}
		})
	}
}

func newAuthApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{})
	app.Use(sessionMiddleware)

	m := NewAuthMiddleware(cfg)
	app.Get("/", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("viewer=" + Viewer(c))
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.Config
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "auth disabled lets anonymous through",
			cfg:        &config.Config{},
			wantStatus: fiber.StatusOK,
			wantBody:   "viewer=",
		},
		{
			name:       "auth enabled redirects anonymous",
			cfg:        &config.Config{OIDCIssuer: "https://issuer.example.com"},
			wantStatus: fiber.StatusSeeOther,
		},
		{
			name:       "htmx request gets HX-Redirect",
			cfg:        &config.Config{OIDCIssuer: "https://issuer.example.com"},
			headers:    map[string]string{"HX-Request": "true"},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "client cert header identifies viewer",
			cfg:        &config.Config{OIDCIssuer: "https://issuer.example.com", ClientCertHeader: "X-Client-CN"},
			headers:    map[string]string{"X-Client-CN": "Heath Taylor (heatht)"},
			wantStatus: fiber.StatusOK,
			wantBody:   "viewer=heatht",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(tt.cfg)
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
			if tt.wantStatus == fiber.StatusUnauthorized && resp.Header.Get("HX-Redirect") != "/auth/login" {
				t.Errorf("HX-Redirect = %q, want /auth/login", resp.Header.Get("HX-Redirect"))
			}
		})
	}
}
