package config

import (
	"fmt"
	"strings"
)

// Check reports presence of a single named configuration value.
type Check struct {
	// Name is the dotted setting name, matching the toml layout and the
	// ACCOUNT_PORTAL_* environment override (dots replaced by underscores).
	Name string
	// Present is true if the value is set to something non-zero.
	Present bool
	// Value is the display value. Secret values are masked.
	Value string
	// Secret marks values that must never be shown in clear text.
	Secret bool
}

const maskedValue = "********"

// Diagnose reports presence/absence for every startup-relevant setting.
// Secret values (passwords, client secrets) are masked, never echoed.
func Diagnose(c Config) []Check {
	checks := []Check{
		{Name: "title", Value: c.Title},
		{Name: "webserver.url", Value: c.Webserver.URL},
		{Name: "webserver.domain", Value: c.Webserver.Domain},
		{Name: "webserver.port", Value: intValue(c.Webserver.Port)},
		{Name: "webserver.session.expirytime", Value: durValue(c.Webserver.Session.ExpiryTime)},
		{Name: "db.engine", Value: c.DB.Engine},
		{Name: "db.host", Value: c.DB.Host},
		{Name: "db.name", Value: c.DB.Name},
		{Name: "db.user", Value: c.DB.User},
		{Name: "db.password", Value: c.DB.Password, Secret: true},
		{Name: "auth.local.enabled", Value: boolValue(c.Auth.Local.Enabled)},
		{Name: "auth.oidc.enabled", Value: boolValue(c.Auth.OIDC.Enabled)},
		{Name: "auth.oidc.providerurl", Value: c.Auth.OIDC.ProviderURL},
		{Name: "auth.oidc.clientid", Value: c.Auth.OIDC.ClientID},
		{Name: "auth.oidc.clientsecret", Value: c.Auth.OIDC.ClientSecret, Secret: true},
		{Name: "auth.oidc.redirecturl", Value: c.Auth.OIDC.RedirectURL},
		{Name: "log.loglevel", Value: c.Log.LogLevel},
		{Name: "log.datadog.apikey", Value: c.Log.DataDog.APIKey, Secret: true},
	}

	for i := range checks {
		checks[i].Present = checks[i].Value != ""

		if checks[i].Secret && checks[i].Present {
			checks[i].Value = maskedValue
		}
	}

	return checks
}

// EnvName returns the environment variable override name for a check.
func (c Check) EnvName() string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(c.Name, ".", "_"))
}

func intValue(v int) string {
	if v == 0 {
		return ""
	}

	return fmt.Sprintf("%d", v)
}

func boolValue(v bool) string {
	if !v {
		return ""
	}

	return "true"
}

func durValue(v fmt.Stringer) string {
	s := v.String()
	if s == "0s" {
		return ""
	}

	return s
}
