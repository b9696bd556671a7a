// Package diagnostics provides the environment configuration report page.
package diagnostics

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	"github.com/go-account-portal/go-account-portal/internal/web/navigation"
)

const (
	// Path is the path to the diagnostics page.
	Path = "/diagnostics"

	// TemplateName is the name of the diagnostics template.
	TemplateName = "diagnostics/diagnostics"
)

// Service is the diagnostics handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the diagnostics handler.
var Handler = Service{}

// Init initializes the diagnostics handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get renders presence/absence for every startup-relevant setting. Secret
// values arrive pre-masked from the config layer and are never echoed.
func (s *Service) Get(c *fiber.Ctx) error {
	checks := config.Diagnose(*s.cfg)

	missing := 0

	for _, check := range checks {
		if !check.Present {
			missing++
		}
	}

	nav := navigation.NewContext("Diagnostics", "diagnostics", "diagnostics").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Diagnostics", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Title":      "Diagnostics",
		"Navigation": nav,
		"Checks":     checks,
		"Missing":    missing,
	}, handler.BaseLayout)
}
