package register

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
)

const (
	// Path is the path to the registration page.
	Path = "/register"
)

// Service is the registration handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the registration handler.
var Handler = Service{}

// form is the registration form payload.
type form struct {
	Email       string `form:"email"`
	Password    string `form:"password"`
	DisplayName string `form:"display_name"`
}

// Init initializes the registration handler.
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

// Get handles the registration page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.Map{})
}

// Post handles the registration form submission. A successful registration
// signs the new account in right away.
func (s *Service) Post(c *fiber.Ctx) error {
	payload := new(form)

	if err := c.BodyParser(payload); err != nil {
		return s.render(c, fiber.Map{"error": "Invalid form data"})
	}

	user, err := s.auth.SignUp(payload.Email, payload.Password, payload.DisplayName)
	if err != nil {
		return s.render(c, fiber.Map{
			"error":        auth.Map(err).Message,
			"email":        payload.Email,
			"display_name": payload.DisplayName,
		})
	}

	if err := handler.EstablishSession(c, s.cfg, user); err != nil {
		log.Error().Err(err).Msg("failed to establish session")
		return s.render(c, fiber.Map{"error": "Internal server error"})
	}

	log.Info().Str("email", user.Email).Msg("user registered")

	return c.Redirect(handler.RootPath)
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	data["Title"] = "Create account"
	data["min_password_length"] = s.cfg.Auth.Local.MinPasswordLength

	return c.Render("auth/register", data)
}
