package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"mediadash/internal/panel"
)

// controlsKey holds every panel's controls as one JSON document so the
// session value stays a plain string for any storage backend.
const controlsKey = "controls"

func sessionControls(c fiber.Ctx) map[string]panel.Controls {
	out := map[string]panel.Controls{}
	sess := session.FromContext(c)
	if sess == nil {
		return out
	}
	raw, ok := sess.Get(controlsKey).(string)
	if !ok || raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]panel.Controls{}
	}
	return out
}

// controlsFor returns the stored controls of one panel, or the defaults.
// Stored values that no longer validate fall back to the defaults.
func controlsFor(c fiber.Ctx, panelID string) panel.Controls {
	ctl, ok := sessionControls(c)[panelID]
	if !ok || ctl.Validate() != nil {
		return panel.Defaults()
	}
	return ctl
}

func saveControls(c fiber.Ctx, panelID string, ctl *panel.Controls) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	all := sessionControls(c)
	if ctl == nil {
		delete(all, panelID)
	} else {
		all[panelID] = *ctl
	}
	raw, err := json.Marshal(all)
	if err != nil {
		return err
	}
	sess.Set(controlsKey, string(raw))
	return nil
}
