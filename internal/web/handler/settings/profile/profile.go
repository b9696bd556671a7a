// Package profile provides the account profile settings page.
package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	"github.com/go-account-portal/go-account-portal/internal/web/navigation"
)

const (
	// Path is the path to the profile settings page.
	Path = "/settings/profile"

	// TemplateName is the name of the profile template.
	TemplateName = "settings/profile"
)

// Service is the profile settings handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the profile settings handler.
var Handler = Service{}

// form is the profile form payload.
type form struct {
	DisplayName string `form:"display_name"`
}

// Init initializes the profile settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = authService

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the profile page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	return s.render(c, user, fiber.Map{})
}

// Post handles the profile form submission. An empty display name is
// rejected by the provider before any database access; the mapped message
// is rendered inline.
func (s *Service) Post(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	payload := new(form)
	if err := c.BodyParser(payload); err != nil {
		return s.render(c, user, fiber.Map{"error": "Invalid form data"})
	}

	updated, err := s.auth.UpdateProfile(user.ID, payload.DisplayName)
	if err != nil {
		return s.render(c, user, fiber.Map{"error": auth.Map(err).Message})
	}

	// the session carries the user record; rewrite it so the next request
	// sees the new display name
	if err := handler.RefreshSession(c, s.cfg, updated); err != nil {
		log.Error().Err(err).Msg("failed to refresh session")
	}

	return s.render(c, updated, fiber.Map{"saved": true})
}

func (s *Service) render(c *fiber.Ctx, user *models.User, data fiber.Map) error {
	nav := navigation.NewSettingsContext("Profile", "profile", Path)

	data["Title"] = "Profile"
	data["Navigation"] = nav
	data["User"] = user

	return c.Render(TemplateName, data, handler.BaseLayout)
}
