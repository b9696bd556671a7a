package config

import (
	"time"

	"github.com/go-account-portal/go-account-portal/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable the error boundary recover in the route guard
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // file path, sqlite only
}

// Auth groups the authentication settings.
type Auth struct {
	Local LocalAuth
	OIDC  OIDCAuth
	Reset ResetAuth
}

// LocalAuth holds the settings for email/password authentication.
type LocalAuth struct {
	Enabled           bool
	MinPasswordLength int
}

// OIDCAuth holds the settings for OIDC (e.g. Google) sign-in.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// ResetAuth holds the settings for the password reset flow.
type ResetAuth struct {
	TokenTTL time.Duration
}
