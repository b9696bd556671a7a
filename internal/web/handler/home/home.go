// Package home provides the signed-in landing page.
package home

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	"github.com/go-account-portal/go-account-portal/internal/web/navigation"
)

const (
	// Path is the path to the home page.
	Path = handler.RootPath

	// TemplateName is the name of the home template.
	TemplateName = "home/home"
)

// Service is the home handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the home handler.
var Handler = Service{}

// Init initializes the home handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = authService

	app.Get(Path, s.Get)

	return nil
}

// Get handles the home page rendering. The guard guarantees a signed-in
// user reaches this point.
func (s *Service) Get(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	nav := navigation.NewContext("Home", "home", "home").
		AddBreadcrumb("Home", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       user,
	}, handler.BaseLayout)
}
