package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"mediadash/internal/config"
)

// ViewerKey is the c.Locals key holding the viewer's display name.
const ViewerKey = "viewer"

// AuthMiddleware identifies viewers and, when OIDC is configured, gates the
// dashboard behind a login.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// viewer resolves the current viewer from a client certificate header or the
// session. An empty result means anonymous.
func (m *AuthMiddleware) viewer(c fiber.Ctx) string {
	if m.cfg.ClientCertHeader != "" {
		if username := extractUsernameFromCN(c.Get(m.cfg.ClientCertHeader)); username != "" {
			return username
		}
	}
	sess := session.FromContext(c)
	if sess == nil {
		return ""
	}
	if name, ok := sess.Get("user_name").(string); ok && name != "" {
		return name
	}
	if sub, ok := sess.Get("user_sub").(string); ok {
		return sub
	}
	return ""
}

// RequireAuth ensures the viewer is authenticated when a login is configured,
// redirecting to /auth/login if not. Without OIDC every viewer passes.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	name := m.viewer(c)
	if name == "" && m.cfg.AuthEnabled() {
		if sess := session.FromContext(c); sess != nil {
			sess.Set("redirect_after_login", c.OriginalURL())
		}
		if c.Get("HX-Request") == "true" {
			c.Set("HX-Redirect", "/auth/login")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Redirect().To("/auth/login")
	}

	c.Locals(ViewerKey, name)
	return c.Next()
}

// OptionalAuth loads the viewer if known, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	c.Locals(ViewerKey, m.viewer(c))
	return c.Next()
}

// Viewer returns the name stored by RequireAuth or OptionalAuth.
func Viewer(c fiber.Ctx) string {
	name, _ := c.Locals(ViewerKey).(string)
	return name
}

// extractUsernameFromCN pulls the username out of a certificate common name
// of the form "Full Name (username)".
func extractUsernameFromCN(cn string) string {
	cn = strings.TrimSpace(cn)
	if !strings.HasSuffix(cn, ")") {
		return ""
	}
	open := strings.LastIndex(cn, "(")
	if open < 0 {
		return ""
	}
	inner := cn[open+1 : len(cn)-1]
	if strings.ContainsAny(inner, "()") {
		return ""
	}
	return strings.TrimSpace(inner)
}
