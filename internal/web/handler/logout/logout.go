package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/login"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

// Service is the logout handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = authService

	// logout route (outside guard protection)
	app.Get(handler.RootPath+"logout", s.Logout)
	app.Post(handler.RootPath+"logout", s.Logout)

	return nil
}

// Logout signs the user out: the server-side session is removed, the cookie
// cleared, and the watcher notified before redirecting to the login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)

	if err := s.auth.SignOut(sessionID); err != nil {
		log.Error().Err(err).Msg("failed to sign out")
	}

	handler.ClearSessionCookie(c)

	return c.Redirect(login.Path)
}
