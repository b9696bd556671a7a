// Package session holds the session lifecycle: the server side session store
// mapping cookies to user records, and the Watcher, the observable single
// source of truth for "who is signed in".
package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage"

	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/uniuri"
)

// Store is the global session store instance.
var Store *session.Store

// CookieName is the name of the session cookie.
const CookieName = "session"

// sessionIDLen yields 256 bits of entropy over the uniuri charset.
const sessionIDLen = 43

// Data represents the session data structure.
type Data struct {
	User models.User
}

// Session returns the read-only session view for the stored user.
func (s *Data) Session() *Session {
	if s.User.ID == 0 {
		return nil
	}

	return &Session{
		UserID:        s.User.ID,
		Email:         s.User.Email,
		DisplayName:   s.User.DisplayName,
		EmailVerified: s.User.EmailVerified,
	}
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrSessionNotFound
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session data for the given session ID.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID)
}

// Init initializes the session store with the provided storage backend.
func Init(storage storage.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage: storage,
	})
}

// Ready reports whether the session store was initialized.
// Until this is true the portal is still starting up and no
// authentication decision can be made.
func Ready() bool {
	return Store != nil
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	return uniuri.NewLen(sessionIDLen), nil
}
