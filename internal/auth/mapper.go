package auth

import (
	"context"
	"errors"
	"net"
	"net/url"

	"gorm.io/gorm"
)

// Kind classifies an authentication failure into one of a small, closed set
// of categories the web layer can render a message for.
type Kind string

const (
	// KindInvalidCredentials covers wrong passwords and failed second factors.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindUserNotFound means no account exists for the given email.
	KindUserNotFound Kind = "user_not_found"
	// KindEmailInUse means an account already exists for the given email.
	KindEmailInUse Kind = "email_in_use"
	// KindWeakPassword means a new password missed the minimum requirements.
	KindWeakPassword Kind = "weak_password"
	// KindNetwork covers transport failures reaching a backing service.
	KindNetwork Kind = "network"
	// KindNotAuthenticated means the operation requires a signed-in user.
	KindNotAuthenticated Kind = "not_authenticated"
	// KindOAuthCancelled means the user aborted the provider sign-in flow.
	KindOAuthCancelled Kind = "oauth_cancelled"
	// KindUnknown is the fallback for everything else.
	KindUnknown Kind = "unknown"
)

// Error is an authentication failure carrying a classification and a message
// safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// user-facing messages per classification
const (
	msgInvalidCredentials = "Invalid email or password."
	msgTwoFactorRequired  = "Enter your two-factor authentication code."
	msgTwoFactorInvalid   = "The two-factor authentication code is not valid."
	msgUserNotFound       = "No account exists for this email address."
	msgEmailInUse         = "An account with this email address already exists."
	msgInvalidEmail       = "Enter a valid email address."
	msgWeakPassword       = "The password does not meet the minimum requirements."
	msgNetwork            = "Could not reach the authentication service. Check your connection and try again."
	msgNotAuthenticated   = "You need to sign in to do this."
	msgOAuthCancelled     = "Sign-in was cancelled before it completed."
	msgAccountDisabled    = "This account has been disabled."
	msgResetTokenInvalid  = "This password reset link is not valid."
	msgResetTokenExpired  = "This password reset link has expired. Request a new one."
	msgResetTokenUsed     = "This password reset link was already used. Request a new one."
	msgDisplayNameEmpty   = "Display name cannot be empty"
)

// Map classifies err into an *Error with a user-facing message. Unrecognized
// errors map to KindUnknown and keep their raw message so it still surfaces
// somewhere visible.
func Map(err error) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidOldPassword):
		return &Error{Kind: KindInvalidCredentials, Message: msgInvalidCredentials}
	case errors.Is(err, ErrTwoFactorRequired):
		return &Error{Kind: KindInvalidCredentials, Message: msgTwoFactorRequired}
	case errors.Is(err, ErrTwoFactorInvalid):
		return &Error{Kind: KindInvalidCredentials, Message: msgTwoFactorInvalid}
	case errors.Is(err, ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindUserNotFound, Message: msgUserNotFound}
	case errors.Is(err, ErrEmailInUse):
		return &Error{Kind: KindEmailInUse, Message: msgEmailInUse}
	case errors.Is(err, ErrWeakPassword):
		return &Error{Kind: KindWeakPassword, Message: msgWeakPassword}
	case errors.Is(err, ErrNotAuthenticated):
		return &Error{Kind: KindNotAuthenticated, Message: msgNotAuthenticated}
	case errors.Is(err, ErrOAuthCancelled):
		return &Error{Kind: KindOAuthCancelled, Message: msgOAuthCancelled}
	case errors.Is(err, ErrInvalidEmail):
		return &Error{Kind: KindUnknown, Message: msgInvalidEmail}
	case errors.Is(err, ErrUserAccountDisabled):
		return &Error{Kind: KindUnknown, Message: msgAccountDisabled}
	case errors.Is(err, ErrResetTokenInvalid):
		return &Error{Kind: KindUnknown, Message: msgResetTokenInvalid}
	case errors.Is(err, ErrResetTokenExpired):
		return &Error{Kind: KindUnknown, Message: msgResetTokenExpired}
	case errors.Is(err, ErrResetTokenUsed):
		return &Error{Kind: KindUnknown, Message: msgResetTokenUsed}
	case errors.Is(err, ErrDisplayNameEmpty):
		return &Error{Kind: KindUnknown, Message: msgDisplayNameEmpty}
	case isNetworkError(err):
		return &Error{Kind: KindNetwork, Message: msgNetwork}
	default:
		return &Error{Kind: KindUnknown, Message: err.Error()}
	}
}

// isNetworkError reports whether err looks like a transport failure rather
// than a rejected request.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
