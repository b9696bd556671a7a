package profile

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"gorm.io/gorm"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	websess "github.com/go-account-portal/go-account-portal/internal/web/session"
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

		if v, exists := m["saved"]; exists && v == true {
			_, _ = io.WriteString(w, "saved")
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.PasswordReset{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			Local: config.LocalAuth{Enabled: true, MinPasswordLength: 8},
			Reset: config.ResetAuth{TokenTTL: time.Hour},
		},
	}
}

// newSignedInApp builds an app with the profile handler mounted and a
// middleware that plants the given user in Locals, standing in for the
// guard on authenticated requests.
func newSignedInApp(t *testing.T, db *gorm.DB, user *models.User) (*fiber.App, *auth.Service) {
	t.Helper()

	websess.Init(memory.New())

	cfg := newTestConfig()

	authService, err := auth.NewService(context.Background(), db, cfg, websess.NewWatcher())
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}

	app := fiber.New(fiber.Config{Views: noOpViews{}})
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("CurrentUser", *user)
		}

		return c.Next()
	})

	var s Service
	if err := s.Init(app, cfg, authService); err != nil {
		t.Fatalf("Init: %v", err)
	}

	return app, authService
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPost_EmptyDisplayNameRendersExactMessage(t *testing.T) {
	db := newTestDB(t)

	user := &models.User{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		AuthSource:  models.AuthSourceLocal,
		Active:      true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	app, _ := newSignedInApp(t, db, user)

	tests := []string{"", "   ", "\t\n"}

	for _, name := range tests {
		resp := performPost(t, app, Path, url.Values{"display_name": {name}})

		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
		}

		if string(body) != "Display name cannot be empty" {
			t.Fatalf("expected exact message, got %q", body)
		}
	}

	// the rejection happens before the database is touched
	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}

	if stored.DisplayName != "Alice" {
		t.Fatalf("display name changed to %q, expected unchanged", stored.DisplayName)
	}
}

func TestPost_ValidDisplayNameSaves(t *testing.T) {
	db := newTestDB(t)

	user := &models.User{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		AuthSource:  models.AuthSourceLocal,
		Active:      true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	app, _ := newSignedInApp(t, db, user)

	resp := performPost(t, app, Path, url.Values{"display_name": {"Alice B."}})

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "saved" {
		t.Fatalf("expected saved confirmation, got %q", body)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}

	if stored.DisplayName != "Alice B." {
		t.Fatalf("expected display name saved, got %q", stored.DisplayName)
	}
}

func TestPostAndGet_AnonymousRedirectsToLogin(t *testing.T) {
	db := newTestDB(t)

	app, _ := newSignedInApp(t, db, nil)

	resp := performPost(t, app, Path, url.Values{"display_name": {"Mallory"}})

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
}
