package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"

	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

func TestStoreRoundTrip(t *testing.T) {
	session.Init(memory.New())

	id, err := session.GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID: %v", err)
	}

	if len(id) < 32 {
		t.Errorf("session ID too short: %d characters", len(id))
	}

	in := session.Data{User: models.User{
		ID:            7,
		Email:         "alice@example.com",
		DisplayName:   "Alice",
		EmailVerified: true,
	}}

	if err := in.Write(id, time.Minute); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var out session.Data
	if err := out.Read(id); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if out.User.ID != 7 || out.User.Email != "alice@example.com" {
		t.Errorf("round trip mismatch: %+v", out.User)
	}

	sess := out.Session()
	if sess == nil || sess.UserID != 7 || !sess.EmailVerified {
		t.Errorf("Session() = %+v", sess)
	}

	if err := session.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var gone session.Data
	if err := gone.Read(id); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Read after delete = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, _ := session.GenerateSessionID()
	b, _ := session.GenerateSessionID()

	if a == b {
		t.Error("two generated session IDs are equal")
	}
}

func TestDataSessionNilForAnonymous(t *testing.T) {
	var d session.Data
	if d.Session() != nil {
		t.Error("anonymous session data must map to a nil session")
	}
}
