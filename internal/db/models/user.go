package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthSource represents the authentication source for a user account.
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user authenticates via OpenID Connect (OIDC).
	AuthSourceOIDC AuthSource = "oidc"
)

// User represents a user account in the portal.
// Local users carry an Argon2id password hash; OIDC users are keyed by the
// provider subject in ExternalID and have no password.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active and can sign in.
	Active bool
	// Email is the unique sign-in identifier.
	Email string `gorm:"unique;size:255;not null"`
	// EmailVerified indicates whether the email address was confirmed.
	EmailVerified bool
	// Password is the Argon2id hashed password (local accounts only).
	// Bcrypt hashes from imported accounts are accepted for verification.
	Password string `gorm:"size:255"`
	// DisplayName is the name shown across the portal.
	DisplayName string `gorm:"size:100"`
	// AuthSource indicates how this user authenticates (local or oidc).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the OIDC subject claim for provider backed users.
	ExternalID string `gorm:"size:255"`
	// TOTPSecret is the shared secret for the optional second factor.
	TOTPSecret string `gorm:"size:255"`
	// TOTPEnabled is true once the user confirmed a code for the stored secret.
	TOTPEnabled bool
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hash.
// Argon2id is the primary format; bcrypt hashes of imported accounts are
// still accepted so those users can sign in before their first rehash.
func (u *User) VerifyPassword(password string) bool {
	if strings.HasPrefix(u.Password, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, u.Password)
		if err != nil {
			log.Error().Msgf("failed to verify password: %v", err)
			return false
		}

		return match
	}

	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
