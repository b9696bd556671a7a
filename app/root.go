// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/go-account-portal/go-account-portal/internal/config"
)

var (
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "account-portal",
		Short: "Account Portal is a self-service account management web application",
		Long: `Account Portal is a self-service web application for user accounts:
sign in with email/password or an OIDC provider, manage profile and
security settings, and reset forgotten passwords.`,
		Args: cobra.OnlyValidArgs,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
