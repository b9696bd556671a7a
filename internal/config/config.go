// Package config handles input from etc/main.toml with environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. ACCOUNT_PORTAL_WEBSERVER_PORT.
	EnvPrefix = "ACCOUNT_PORTAL"

	defaultShutDownTime      = 5
	defaultSessionExpiry     = 12 * time.Hour
	defaultResetTokenTTL     = 30 * time.Minute
	defaultMinPasswordLength = 8
)

// ReadConfig reads the configuration from the given directory (default ./etc/)
// and applies ACCOUNT_PORTAL_* environment variable overrides.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Account Portal")
	v.SetDefault("webserver.shutdowntime", defaultShutDownTime)
	v.SetDefault("webserver.session.expirytime", defaultSessionExpiry)
	v.SetDefault("db.engine", "sqlite")
	v.SetDefault("db.path", "./account-portal.db")
	v.SetDefault("auth.local.enabled", true)
	v.SetDefault("auth.local.minpasswordlength", defaultMinPasswordLength)
	v.SetDefault("auth.reset.tokenttl", defaultResetTokenTTL)
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "account-portal")
	v.SetDefault("log.servicename", "account-portal")
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings needed to start the portal.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if !c.Auth.Local.Enabled && !c.Auth.OIDC.Enabled {
		return errors.Wrap(ErrNoAuthMethodEnabled, invalidErrMessage)
	}

	if c.Auth.OIDC.Enabled {
		oidc := c.Auth.OIDC
		if oidc.ProviderURL == "" || oidc.ClientID == "" || oidc.RedirectURL == "" {
			return errors.Wrap(ErrOIDCIncomplete, invalidErrMessage)
		}
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Auth.Reset.TokenTTL == 0 {
		c.Auth.Reset.TokenTTL = defaultResetTokenTTL
	}

	if c.Auth.Local.MinPasswordLength == 0 {
		c.Auth.Local.MinPasswordLength = defaultMinPasswordLength
	}

	return nil
}
