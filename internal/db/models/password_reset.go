package models

import (
	"time"
)

// PasswordReset tracks a single password reset request.
// The token is handed to the user out of band (email) and is single use.
type PasswordReset struct {
	// ID is the unique identifier for the reset request.
	ID uint64 `gorm:"primaryKey"`
	// Token is the random, URL safe reset token.
	Token string `gorm:"unique;size:64;not null"`
	// UserID references the user the reset was requested for.
	UserID uint64 `gorm:"not null"`
	// Email is the address the reset link was sent to.
	Email string `gorm:"size:255;not null"`
	// ExpiresAt is the moment the token stops being accepted.
	ExpiresAt time.Time
	// UsedAt is set once the token was redeemed. A used token is never accepted again.
	UsedAt *time.Time
	// CreatedAt is the timestamp when the request was created (managed by GORM).
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (r *PasswordReset) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Used reports whether the token was already redeemed.
func (r *PasswordReset) Used() bool {
	return r.UsedAt != nil
}
