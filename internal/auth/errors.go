package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
	ErrOIDCDisabled = errors.New("oidc authentication is disabled")

	// ErrLocalAuthDisabled is returned when email/password authentication is disabled by configuration.
	ErrLocalAuthDisabled = errors.New("local authentication is disabled")

	// ErrInvalidCredentials is returned when the provided email and/or password are not valid.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrUserNotFound is returned when a user cannot be found for the given email address.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrEmailInUse is returned when attempting to register with an email that already has an account.
	ErrEmailInUse = errors.New("email address already in use")

	// ErrInvalidEmail is returned when the submitted email address is not well formed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a new password does not meet the minimum length requirement.
	ErrWeakPassword = errors.New("password does not meet the minimum requirements")

	// ErrNotAuthenticated is returned when an operation requires a signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrOAuthCancelled is returned when the user aborted the provider sign-in
	// before the flow completed (denied consent or missing callback parameters).
	ErrOAuthCancelled = errors.New("oauth sign-in was cancelled")

	// ErrResetTokenInvalid is returned when a password reset token is unknown.
	ErrResetTokenInvalid = errors.New("password reset token is invalid")

	// ErrResetTokenExpired is returned when a password reset token is past its expiry.
	ErrResetTokenExpired = errors.New("password reset token is expired")

	// ErrResetTokenUsed is returned when a password reset token was already redeemed.
	ErrResetTokenUsed = errors.New("password reset token was already used")

	// ErrDisplayNameEmpty is returned when a profile update carries an empty display name.
	// Rejected before any database access.
	ErrDisplayNameEmpty = errors.New("display name cannot be empty")

	// ErrTwoFactorRequired is returned when a sign-in needs a TOTP code that was not supplied.
	ErrTwoFactorRequired = errors.New("two-factor authentication code required")

	// ErrTwoFactorInvalid is returned when the supplied TOTP code does not verify.
	ErrTwoFactorInvalid = errors.New("invalid two-factor authentication code")
)
