// Package security provides the password and two-factor settings page.
package security

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
	// Path is the path to the security settings page.
	Path = "/settings/security"

	// TemplateName is the name of the security template.
	TemplateName = "settings/security"
)

// Service is the security settings handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the security settings handler.
var Handler = Service{}

// passwordForm is the change password form payload.
type passwordForm struct {
	OldPassword string `form:"old_password"`
	NewPassword string `form:"new_password"`
}

// totpForm carries the confirmation code for TOTP enrollment.
type totpForm struct {
	Code string `form:"code"`
}

// Init initializes the security settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = authService

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post("/password", s.PostPassword)
		router.Post("/totp/enroll", s.PostTOTPEnroll)
		router.Post("/totp/confirm", s.PostTOTPConfirm)
		router.Post("/totp/disable", s.PostTOTPDisable)
	})

	return nil
}

// Get handles the security page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	return s.render(c, user, fiber.Map{})
}

// PostPassword handles the change password form.
func (s *Service) PostPassword(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	payload := new(passwordForm)
	if err := c.BodyParser(payload); err != nil {
		return s.render(c, user, fiber.Map{"error": "Invalid form data"})
	}

	if err := s.auth.ChangePassword(user.ID, payload.OldPassword, payload.NewPassword); err != nil {
		return s.render(c, user, fiber.Map{"error": auth.Map(err).Message})
	}

	log.Info().Str("email", user.Email).Msg("password changed")

	return s.render(c, user, fiber.Map{"password_changed": true})
}

// PostTOTPEnroll generates a new TOTP secret. The page shows the otpauth://
// URL so the user can register it and confirm with a code.
func (s *Service) PostTOTPEnroll(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	key, err := s.auth.Local().EnrollTOTP(user.ID, s.cfg.Title)
	if err != nil {
		return s.render(c, user, fiber.Map{"error": auth.Map(err).Message})
	}

	return s.render(c, user, fiber.Map{
		"totp_enrolling": true,
		"totp_secret":    key.Secret(),
		"totp_url":       key.URL(),
	})
}

// PostTOTPConfirm verifies the first code and enables the second factor.
func (s *Service) PostTOTPConfirm(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	payload := new(totpForm)
	if err := c.BodyParser(payload); err != nil {
		return s.render(c, user, fiber.Map{"error": "Invalid form data"})
	}

	if err := s.auth.Local().ConfirmTOTP(user.ID, payload.Code); err != nil {
		return s.render(c, user, fiber.Map{
			"error":          auth.Map(err).Message,
			"totp_enrolling": true,
		})
	}

	if err := s.refreshUser(c, user.ID); err != nil {
		log.Error().Err(err).Msg("failed to refresh session")
	}

	log.Info().Str("email", user.Email).Msg("two-factor authentication enabled")

	user.TOTPEnabled = true

	return s.render(c, user, fiber.Map{"totp_enabled_now": true})
}

// PostTOTPDisable turns the second factor off.
func (s *Service) PostTOTPDisable(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}

	if err := s.auth.Local().DisableTOTP(user.ID); err != nil {
		return s.render(c, user, fiber.Map{"error": auth.Map(err).Message})
	}

	if err := s.refreshUser(c, user.ID); err != nil {
		log.Error().Err(err).Msg("failed to refresh session")
	}

	log.Info().Str("email", user.Email).Msg("two-factor authentication disabled")

	user.TOTPEnabled = false

	return s.render(c, user, fiber.Map{"totp_disabled_now": true})
}

// refreshUser rewrites the session from the current database record.
func (s *Service) refreshUser(c *fiber.Ctx, userID uint64) error {
	fresh, err := s.auth.Local().GetUserByID(userID)
	if err != nil {
		return err
	}

	return handler.RefreshSession(c, s.cfg, fresh)
}

func (s *Service) render(c *fiber.Ctx, user *models.User, data fiber.Map) error {
	nav := navigation.NewSettingsContext("Security", "security", Path)

	data["Title"] = "Security"
	data["Navigation"] = nav
	data["User"] = user
	data["is_local"] = user.AuthSource == models.AuthSourceLocal
	data["min_password_length"] = s.cfg.Auth.Local.MinPasswordLength

	return c.Render(TemplateName, data, handler.BaseLayout)
}
