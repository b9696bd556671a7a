// Package main provides the entry point for the account portal application.
// It initializes and runs a web server using the Fiber framework that lets
// users sign in with email/password or an OIDC provider, manage their
// profile and security settings, and reset forgotten passwords. The
// application uses gorm for data persistence and fiber sessions backed by
// the configured storage engine.
package main
