package config

import (
	"testing"
	"time"
)

func TestDiagnoseMasksSecrets(t *testing.T) {
	cfg := Config{
		Title: "Account Portal",
		Webserver: Webserver{
			URL:     "http://localhost:8080",
			Port:    8080,
			Session: Session{ExpiryTime: time.Hour},
		},
		DB: DB{Engine: "mysql", Host: "db", Name: "portal", User: "portal", Password: "hunter2"},
		Auth: Auth{
			Local: LocalAuth{Enabled: true},
			OIDC: OIDCAuth{
				Enabled:      true,
				ProviderURL:  "https://accounts.google.com",
				ClientID:     "client-id",
				ClientSecret: "super-secret",
				RedirectURL:  "http://localhost:8080/auth/oidc/callback",
			},
		},
	}

	checks := Diagnose(cfg)

	byName := make(map[string]Check, len(checks))
	for _, c := range checks {
		byName[c.Name] = c
	}

	secret, ok := byName["auth.oidc.clientsecret"]
	if !ok {
		t.Fatal("auth.oidc.clientsecret missing from diagnostics")
	}

	if !secret.Present {
		t.Error("client secret should be reported present")
	}

	if secret.Value == "super-secret" {
		t.Error("client secret must never be echoed in clear text")
	}

	if pw := byName["db.password"]; pw.Value == "hunter2" {
		t.Error("db password must never be echoed in clear text")
	}

	if c := byName["webserver.url"]; !c.Present || c.Value != "http://localhost:8080" {
		t.Errorf("webserver.url check = %+v, want present with clear value", c)
	}
}

func TestDiagnoseReportsAbsence(t *testing.T) {
	checks := Diagnose(Config{})

	for _, c := range checks {
		if c.Present {
			t.Errorf("check %s reported present on empty config", c.Name)
		}

		if c.Value != "" {
			t.Errorf("check %s carries value %q on empty config", c.Name, c.Value)
		}
	}
}

func TestCheckEnvName(t *testing.T) {
	c := Check{Name: "auth.oidc.clientid"}
	if got := c.EnvName(); got != "ACCOUNT_PORTAL_AUTH_OIDC_CLIENTID" {
		t.Errorf("EnvName() = %q", got)
	}
}
