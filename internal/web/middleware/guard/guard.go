// Package guard is the authentication gate for every route. Each request is
// classified into one of four states; what gets rendered depends only on
// that state, never on a half-initialized session.
package guard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/login"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

// State is the authentication state derived for a request.
type State int

const (
	// StateLoading means the session backend is not ready yet and no
	// authentication decision can be made.
	StateLoading State = iota
	// StateUnauthenticated means no valid session exists for the request.
	StateUnauthenticated
	// StateAuthenticated means a valid session resolved to an active user.
	StateAuthenticated
	// StateError means deriving the state failed; the error page offers a
	// retry which re-derives the state from scratch.
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CurrentUserKey is the Locals key carrying the signed-in user.
const CurrentUserKey = "CurrentUser"

var stateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "account_portal_guard_requests_total",
	Help: "Number of guarded requests by derived authentication state.",
}, []string{"state"})

// publicPrefixes are reachable without a session. The login page itself is
// handled separately so a signed-in user gets bounced off it.
var publicPrefixes = []string{
	"/register",
	"/reset-password",
	"/auth/oidc",
	"/logout",
	"/diagnostics",
	"/checkalive",
	"/metrics",
}

// Derive classifies the request. The user return is non-nil only for
// StateAuthenticated.
func Derive(c *fiber.Ctx) (State, *models.User) {
	if !session.Ready() {
		return StateLoading, nil
	}

	cookie := c.Cookies(session.CookieName)
	if cookie == "" {
		return StateUnauthenticated, nil
	}

	sessData := new(session.Data)
	if err := sessData.Read(cookie); err != nil {
		// an unreadable session is treated as signed out, not as an error:
		// the cookie may simply have expired from the store
		return StateUnauthenticated, nil
	}

	if sessData.User.ID == 0 || !sessData.User.Active {
		return StateUnauthenticated, nil
	}

	return StateAuthenticated, &sessData.User
}

// Middleware gates every route on the derived authentication state.
//
// Loading renders a retry page and never any protected content.
// Unauthenticated requests for protected routes redirect to the login page.
// Authenticated requests for the login or register page redirect home.
func Middleware(c *fiber.Ctx) error {
	originalURL := strings.ToLower(c.OriginalURL())
	if strings.HasPrefix(originalURL, "/static") {
		return c.Next()
	}

	state, user := Derive(c)
	stateTotal.WithLabelValues(state.String()).Inc()

	isLoginPage := strings.HasPrefix(originalURL, login.Path)
	isRegisterPage := strings.HasPrefix(originalURL, "/register")

	switch state {
	case StateLoading:
		c.Set(fiber.HeaderRetryAfter, "1")

		return c.Status(fiber.StatusServiceUnavailable).
			Render("guard/loading", fiber.Map{
				"Title": "Starting up",
				"retry": c.OriginalURL(),
			})

	case StateAuthenticated:
		c.Locals(CurrentUserKey, *user)

		if isLoginPage || isRegisterPage {
			return c.Redirect("/")
		}

		return c.Next()

	case StateUnauthenticated:
		if isLoginPage || isPublic(originalURL) {
			return c.Next()
		}

		return c.Redirect(login.Path)

	default:
		return c.Redirect(login.Path)
	}
}

// ErrorBoundary recovers panics from downstream handlers and renders the
// error state with a retry link. The retried request derives its
// authentication state from scratch. Recovery can be disabled via
// configuration so development sees the raw panic.
func ErrorBoundary(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		if cfg.Webserver.DisableRecover {
			return c.Next()
		}

		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("uri", c.OriginalURL()).
					Msg("recovered panic in handler")

				stateTotal.WithLabelValues(StateError.String()).Inc()

				err = c.Status(fiber.StatusInternalServerError).
					Render("guard/error", fiber.Map{
						"Title": "Something went wrong",
						"error": "Something went wrong. Please try again.",
						"retry": c.OriginalURL(),
					})
			}
		}()

		return c.Next()
	}
}

func isPublic(originalURL string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return true
		}
	}

	return false
}
