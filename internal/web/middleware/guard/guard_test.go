package guard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"

	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{Views: noOpViews{}})
	app.Use(Middleware)

	app.Get("/", func(c *fiber.Ctx) error {
		user, ok := c.Locals(CurrentUserKey).(models.User)
		if !ok {
			// the guard must never let an anonymous request in here
			return c.Status(fiber.StatusInternalServerError).SendString("no user")
		}

		return c.SendString("home:" + user.Email)
	})

	app.Get("/login", func(c *fiber.Ctx) error {
		return c.SendString("login page")
	})

	return app
}

func performGet(t *testing.T, app *fiber.App, target, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func signedInCookie(t *testing.T, user models.User) string {
	t.Helper()

	id, err := session.GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID: %v", err)
	}

	data := session.Data{User: user}
	if err := data.Write(id, time.Minute); err != nil {
		t.Fatalf("Write: %v", err)
	}

	return id
}

func TestLoadingNeverRendersProtectedContent(t *testing.T) {
	prior := session.Store
	session.Store = nil

	defer func() { session.Store = prior }()

	app := newTestApp()

	resp := performGet(t, app, "/", "")

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while loading, got %d", resp.StatusCode)
	}

	if resp.Header.Get(fiber.HeaderRetryAfter) == "" {
		t.Error("expected Retry-After header while loading")
	}
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	session.Init(memory.New())

	app := newTestApp()

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "no cookie", cookie: ""},
		{name: "unknown cookie", cookie: "does-not-exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performGet(t, app, "/", tt.cookie)

			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusFound {
				t.Fatalf("expected 302, got %d", resp.StatusCode)
			}

			if loc := resp.Header.Get("Location"); loc != "/login" {
				t.Fatalf("expected redirect to /login, got %s", loc)
			}
		})
	}
}

func TestAuthenticatedReachesProtectedContent(t *testing.T) {
	session.Init(memory.New())

	app := newTestApp()

	cookie := signedInCookie(t, models.User{
		ID:     7,
		Active: true,
		Email:  "alice@example.com",
	})

	resp := performGet(t, app, "/", cookie)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "home:alice@example.com" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestAuthenticatedOnLoginPageRedirectsHome(t *testing.T) {
	session.Init(memory.New())

	app := newTestApp()

	cookie := signedInCookie(t, models.User{ID: 7, Active: true, Email: "alice@example.com"})

	resp := performGet(t, app, "/login", cookie)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %s", loc)
	}
}

func TestDisabledUserIsUnauthenticated(t *testing.T) {
	session.Init(memory.New())

	app := newTestApp()

	cookie := signedInCookie(t, models.User{ID: 7, Active: false, Email: "alice@example.com"})

	resp := performGet(t, app, "/", cookie)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
}

func TestErrorBoundaryRendersRetry(t *testing.T) {
	session.Init(memory.New())

	cfg := &config.Config{}

	app := fiber.New(fiber.Config{Views: noOpViews{}})
	app.Use(ErrorBoundary(cfg))

	app.Get("/boom", func(_ *fiber.Ctx) error {
		panic("kaboom")
	})

	resp := performGet(t, app, "/boom", "")

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Something went wrong. Please try again." {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateLoading, "loading"},
		{StateUnauthenticated, "unauthenticated"},
		{StateAuthenticated, "authenticated"},
		{StateError, "error"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
