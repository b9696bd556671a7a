package resetpassword

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/login"
)

const (
	// Path is the path to the password reset pages.
	Path = "/reset-password"
)

// Service is the password reset handler service. It covers both halves of
// the flow: requesting a reset link by email, and redeeming the token from
// that link to set a new password.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the password reset handler.
var Handler = Service{}

// requestForm asks for the email address to send the reset link to.
type requestForm struct {
	Email string `form:"email"`
}

// finalizeForm carries the new password for a token redemption.
type finalizeForm struct {
	Password string `form:"password"`
}

// Init initializes the password reset handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = authService

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
		router.Get("/:token", s.GetFinalize)
		router.Post("/:token", s.PostFinalize)
	})

	return nil
}

// Get renders the reset request form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.Map{})
}

// Post handles the reset request. Unknown email addresses render the mapped
// error so the form can show it; nothing is requested in that case.
func (s *Service) Post(c *fiber.Ctx) error {
	payload := new(requestForm)

	if err := c.BodyParser(payload); err != nil {
		return s.render(c, fiber.Map{"error": "Invalid form data"})
	}

	if err := s.auth.ResetPassword(c.Context(), payload.Email); err != nil {
		return s.render(c, fiber.Map{
			"error": auth.Map(err).Message,
			"email": payload.Email,
		})
	}

	return s.render(c, fiber.Map{
		"requested": true,
		"email":     payload.Email,
	})
}

// GetFinalize validates the token from the emailed link and renders the
// new-password form, or the mapped error for a bad token.
func (s *Service) GetFinalize(c *fiber.Ctx) error {
	token := c.Params("token")

	if _, err := s.auth.LookupResetToken(token); err != nil {
		return s.render(c, fiber.Map{"error": auth.Map(err).Message})
	}

	return s.renderFinalize(c, fiber.Map{"token": token})
}

// PostFinalize redeems the token and sets the new password, then sends the
// user to the login page.
func (s *Service) PostFinalize(c *fiber.Ctx) error {
	token := c.Params("token")

	payload := new(finalizeForm)
	if err := c.BodyParser(payload); err != nil {
		return s.renderFinalize(c, fiber.Map{
			"token": token,
			"error": "Invalid form data",
		})
	}

	if err := s.auth.FinalizeReset(c.Context(), token, payload.Password); err != nil {
		return s.renderFinalize(c, fiber.Map{
			"token": token,
			"error": auth.Map(err).Message,
		})
	}

	log.Info().Msg("password reset completed")

	return c.Redirect(login.Path)
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	data["Title"] = "Reset password"

	return c.Render("auth/reset_request", data)
}

func (s *Service) renderFinalize(c *fiber.Ctx, data fiber.Map) error {
	data["Title"] = "Choose a new password"
	data["min_password_length"] = s.cfg.Auth.Local.MinPasswordLength

	return c.Render("auth/reset_finalize", data)
}
