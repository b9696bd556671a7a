package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrNoAuthMethodEnabled error if neither local nor OIDC authentication is enabled.
	ErrNoAuthMethodEnabled = errors.New("config auth: at least one of auth.local or auth.oidc must be enabled")

	// ErrOIDCIncomplete error if OIDC is enabled but provider, client id or redirect url are missing.
	ErrOIDCIncomplete = errors.New("config auth.oidc: providerurl, clientid and redirecturl are required when enabled")
)
