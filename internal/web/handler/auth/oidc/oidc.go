package oidc

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/login"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for the OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// LogoutPath is the path for OIDC logout.
	LogoutPath = handler.RootPath + "auth/oidc/logout"

	// stateTTL bounds how long a pending sign-in may take.
	stateTTL = 5 * time.Minute
)

// Service is the OIDC handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service

	mu         sync.Mutex
	stateStore map[string]time.Time
	stop       chan struct{}
}

// Handler is the OIDC handler.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the OIDC handler. Routes are only registered when the
// facade carries a provider, so a disabled configuration leaves no trace.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = authService

	if authService.OIDC() == nil {
		log.Info().Msg("OIDC authentication is disabled by configuration")
		return nil
	}

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
	app.Get(LogoutPath, s.Logout)

	s.stop = make(chan struct{})
	app.Hooks().OnShutdown(func() error {
		close(s.stop)
		return nil
	})

	go s.cleanupStates()

	log.Info().Msg("OIDC authentication provider initialized")

	return nil
}

// Login initiates the OIDC login flow by redirecting to the provider.
func (s *Service) Login(c *fiber.Ctx) error {
	state := auth.GenerateStateToken()

	s.mu.Lock()
	s.stateStore[state] = time.Now().Add(stateTTL)
	s.mu.Unlock()

	return c.Redirect(s.auth.OIDC().GetAuthURL(state))
}

// Callback handles the OIDC provider redirect. A denied consent screen or
// missing parameters count as a cancelled sign-in and land back on the
// login page with the mapped message.
func (s *Service) Callback(c *fiber.Ctx) error {
	if c.Query("error") != "" || c.Query("code") == "" || c.Query("state") == "" {
		log.Info().Str("error", c.Query("error")).Msg("OIDC sign-in cancelled")

		return s.failLogin(c, auth.ErrOAuthCancelled)
	}

	if !s.consumeState(c.Query("state")) {
		log.Error().Msg("invalid or expired OIDC state token")

		return s.failLogin(c, auth.ErrOAuthCancelled)
	}

	user, err := s.auth.SignInWithOAuth(c.Context(), c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")

		return s.failLogin(c, err)
	}

	if err := handler.EstablishSession(c, s.cfg, user); err != nil {
		log.Error().Err(err).Msg("failed to establish session")

		return s.failLogin(c, err)
	}

	log.Info().Str("email", user.Email).Msg("user signed in via OIDC")

	return c.Redirect(handler.RootPath)
}

// Logout signs the user out like the regular logout handler does, then
// forwards the browser to the provider's end session endpoint when there
// is one.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.auth.SignOut(c.Cookies(session.CookieName)); err != nil {
		log.Error().Err(err).Msg("failed to sign out")
	}

	handler.ClearSessionCookie(c)

	if logoutURL := s.auth.OIDC().GetLogoutURL("", s.cfg.Webserver.URL); logoutURL != "" {
		return c.Redirect(logoutURL)
	}

	return c.Redirect(login.Path)
}

// consumeState validates and removes a pending state token.
func (s *Service) consumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiration, exists := s.stateStore[state]
	if !exists {
		return false
	}

	delete(s.stateStore, state)

	return time.Now().Before(expiration)
}

// failLogin renders the login page with the mapped error message.
func (s *Service) failLogin(c *fiber.Ctx, err error) error {
	return c.Render("auth/login", fiber.Map{
		"Title":         "Sign in",
		"local_enabled": s.cfg.Auth.Local.Enabled,
		"oidc_enabled":  true,
		"error":         auth.Map(err).Message,
	})
}

// cleanupStates periodically removes expired state tokens until the app
// shuts down.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()

			s.mu.Lock()
			for state, expiration := range s.stateStore {
				if now.After(expiration) {
					delete(s.stateStore, state)
				}
			}
			s.mu.Unlock()
		}
	}
}
