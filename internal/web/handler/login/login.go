package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = "/login"
)

// Service is the login handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the login handler.
var Handler = Service{}

// form is the login form payload.
type form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	TOTPCode string `form:"totp_code"`
}

// Init initializes the login handler.
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

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.Map{})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	payload := new(form)

	if err := c.BodyParser(payload); err != nil {
		return s.render(c, fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	user, err := s.auth.SignIn(payload.Email, payload.Password, payload.TOTPCode)
	if err != nil {
		mapped := auth.Map(err)

		data := fiber.Map{
			"error": mapped.Message,
			"email": payload.Email,
		}

		// keep the code field visible once a second factor is in play
		if errors.Is(err, auth.ErrTwoFactorRequired) || errors.Is(err, auth.ErrTwoFactorInvalid) {
			data["totp_required"] = true
		}

		return s.render(c, data)
	}

	if err := handler.EstablishSession(c, s.cfg, user); err != nil {
		log.Error().Err(err).Msg("failed to establish session")
		return s.render(c, fiber.Map{"error": "Internal server error"})
	}

	log.Info().Str("email", user.Email).Msg("user signed in")

	return c.Redirect(handler.RootPath)
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	data["Title"] = "Sign in"
	data["local_enabled"] = s.cfg.Auth.Local.Enabled
	data["oidc_enabled"] = s.cfg.Auth.OIDC.Enabled

	return c.Render("auth/login", data)
}
