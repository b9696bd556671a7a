package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

// EstablishSession writes a server-side session for the user and sets the
// session cookie on the response. Shared by the login, register and OIDC
// callback handlers.
func EstablishSession(c *fiber.Ctx, cfg *config.Config, user *models.User) error {
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	userSession := &session.Data{
		User: *user,
	}

	if err := userSession.Write(sessionID, cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax", // TODO: make this configurable
	}

	if cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return nil
}

// RefreshSession rewrites the existing session for the request with the
// given user record, keeping the same session ID. Used after profile
// updates so the next request sees the new data.
func RefreshSession(c *fiber.Ctx, cfg *config.Config, user *models.User) error {
	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return EstablishSession(c, cfg, user)
	}

	userSession := &session.Data{
		User: *user,
	}

	return userSession.Write(sessionID, cfg.Webserver.Session.ExpiryTime)
}

// ClearSessionCookie expires the session cookie on the response.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// CurrentUser returns the signed-in user placed in Locals by the guard, or
// nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals("CurrentUser").(models.User)
	if !ok {
		return nil
	}

	return &user
}
