package handlers

import (
	"github.com/gofiber/fiber/v3"

	"mediadash/internal/config"
	"mediadash/internal/middleware"
)

// BrandingData contains site branding information for templates.
type BrandingData struct {
	SiteTitle   string
	SiteTagline string
	SiteFooter  string
	SiteLogoURL string
	AuthEnabled bool
}

// GetBrandingData returns branding data from config for template rendering.
func GetBrandingData(cfg *config.Config) BrandingData {
	return BrandingData{
		SiteTitle:   cfg.SiteTitle,
		SiteTagline: cfg.SiteTagline,
		SiteFooter:  cfg.SiteFooter,
		SiteLogoURL: cfg.SiteLogoURL,
		AuthEnabled: cfg.AuthEnabled(),
	}
}

// MergeBranding adds branding data and the current viewer to a fiber.Map
// for template rendering.
func MergeBranding(c fiber.Ctx, data fiber.Map, cfg *config.Config) fiber.Map {
	branding := GetBrandingData(cfg)
	data["SiteTitle"] = branding.SiteTitle
	data["SiteTagline"] = branding.SiteTagline
	data["SiteFooter"] = branding.SiteFooter
	data["SiteLogoURL"] = branding.SiteLogoURL
	data["AuthEnabled"] = branding.AuthEnabled
	data["Viewer"] = middleware.Viewer(c)
	return data
}
