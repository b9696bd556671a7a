// Package auth provides authentication for the account portal.
//
// Two authentication sources are supported:
//   - Local database authentication with Argon2id password hashing and an
//     optional TOTP second factor
//   - OpenID Connect (OIDC) authentication with external identity providers
//     like Google
//
// # Providers
//
// LocalProvider handles email/password authentication against the local
// database, password changes, TOTP enrollment and profile updates.
//
// OIDCProvider implements the OAuth2/OIDC redirect flow and creates or
// refreshes the matching local user record from the ID token claims.
//
// # Facade
//
// Service is the single entry point the web layer uses. It wires the
// configured providers together, runs the password reset token flow, and
// publishes every session change to a session.Watcher so subscribers
// (logging, metrics, handlers) observe the current user.
//
// # Error mapping
//
// Failures from either provider are sentinel errors. Map classifies any of
// them into an *Error with a stable Kind and a message safe to render:
//
//	user, err := authService.SignIn(email, password, code)
//	if err != nil {
//	    mapped := auth.Map(err)
//	    return c.Render("auth/login", fiber.Map{"error": mapped.Message})
//	}
//
// Unrecognized errors map to KindUnknown and keep their raw message.
package auth
