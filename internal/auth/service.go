package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/uniuri"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

// Service is the authentication facade. It fronts the configured providers
// with one small surface the web handlers call, and publishes every
// session change to the watcher.
type Service struct {
	db       *gorm.DB
	cfg      *config.Config
	local    *LocalProvider
	oidc     *OIDCProvider
	watcher  *session.Watcher
	mailer   Mailer
	validate *validator.Validate
}

// NewService creates the authentication facade. The OIDC provider is only
// constructed when enabled in the configuration; discovery failures are
// returned so startup can abort on a misconfigured provider.
func NewService(ctx context.Context, db *gorm.DB, cfg *config.Config, watcher *session.Watcher) (*Service, error) {
	s := &Service{
		db:       db,
		cfg:      cfg,
		local:    NewLocalProvider(db, cfg.Auth.Local.MinPasswordLength),
		watcher:  watcher,
		mailer:   LogMailer{},
		validate: validator.New(),
	}

	if cfg.Auth.OIDC.Enabled {
		oidcProvider, err := NewOIDCProvider(ctx, &OIDCConfig{
			Enabled:      cfg.Auth.OIDC.Enabled,
			ProviderURL:  cfg.Auth.OIDC.ProviderURL,
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
			Scopes:       cfg.Auth.OIDC.Scopes,
		}, db)
		if err != nil {
			return nil, err
		}

		s.oidc = oidcProvider
	}

	return s, nil
}

// WithMailer replaces the mailer used for password reset delivery.
func (s *Service) WithMailer(m Mailer) *Service {
	s.mailer = m

	return s
}

// Local returns the local provider for operations the facade doesn't cover.
func (s *Service) Local() *LocalProvider {
	return s.local
}

// OIDC returns the OIDC provider, or nil when disabled.
func (s *Service) OIDC() *OIDCProvider {
	return s.oidc
}

// Watcher returns the session watcher the facade publishes to.
func (s *Service) Watcher() *session.Watcher {
	return s.watcher
}

// SignIn authenticates a user by email and password, checking the TOTP code
// when the account has two-factor authentication enabled. On success the
// session watcher is updated.
func (s *Service) SignIn(email, password, totpCode string) (user *models.User, err error) {
	defer func() { signInsTotal.WithLabelValues(methodPassword, outcome(err)).Inc() }()

	if !s.cfg.Auth.Local.Enabled {
		return nil, ErrLocalAuthDisabled
	}

	user, err = s.local.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	if user.TOTPEnabled {
		if err = VerifyTOTP(user, totpCode); err != nil {
			return nil, err
		}
	}

	s.publish(user)

	return user, nil
}

// SignUp registers a new local account and signs it in.
func (s *Service) SignUp(email, password, displayName string) (user *models.User, err error) {
	defer func() { signUpsTotal.WithLabelValues(outcome(err)).Inc() }()

	if !s.cfg.Auth.Local.Enabled {
		return nil, ErrLocalAuthDisabled
	}

	if err = s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	user, err = s.local.CreateUser(email, password, displayName)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

// SignInWithOAuth completes an OIDC sign-in from the provider callback code.
func (s *Service) SignInWithOAuth(ctx context.Context, code string) (user *models.User, err error) {
	defer func() { signInsTotal.WithLabelValues(methodOIDC, outcome(err)).Inc() }()

	if s.oidc == nil {
		return nil, ErrOIDCDisabled
	}

	user, err = s.oidc.HandleCallback(ctx, code)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

// ResetPassword starts the password reset flow for a local account: it
// creates a single-use token and hands the reset link to the mailer.
func (s *Service) ResetPassword(ctx context.Context, email string) (err error) {
	defer func() { passwordResetsTotal.WithLabelValues("request", outcome(err)).Inc() }()

	user, err := s.local.GetUserByEmail(email)
	if err != nil {
		return err
	}

	if user.AuthSource != models.AuthSourceLocal {
		// accounts from an identity provider have no local password
		return ErrUserNotFound
	}

	reset := models.PasswordReset{
		Token:     uniuri.NewLen(uniuri.TokenLen),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(s.cfg.Auth.Reset.TokenTTL),
		CreatedAt: time.Now(),
	}

	if err = s.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.cfg.Webserver.URL, reset.Token)

	return s.mailer.SendPasswordReset(user.Email, link)
}

// LookupResetToken validates a reset token without redeeming it. Used to
// decide whether to render the new-password form.
func (s *Service) LookupResetToken(token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset

	err := s.db.Where("token = ?", token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenInvalid
		}

		return nil, fmt.Errorf("failed to query reset token: %w", err)
	}

	if reset.Used() {
		return nil, ErrResetTokenUsed
	}

	if reset.Expired(time.Now()) {
		return nil, ErrResetTokenExpired
	}

	return &reset, nil
}

// FinalizeReset redeems a reset token and sets the new password. The token
// is marked used in the same transaction as the password change.
func (s *Service) FinalizeReset(ctx context.Context, token, newPassword string) (err error) {
	defer func() { passwordResetsTotal.WithLabelValues("finalize", outcome(err)).Inc() }()

	reset, err := s.LookupResetToken(token)
	if err != nil {
		return err
	}

	if len(newPassword) < s.cfg.Auth.Local.MinPasswordLength {
		return ErrWeakPassword
	}

	now := time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).
			Where(whereIDAndAuthSource, reset.UserID, models.AuthSourceLocal).
			Update("password", models.HashPassword(newPassword)).Error
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		return tx.Model(&models.PasswordReset{}).
			Where("id = ?", reset.ID).
			Update("used_at", &now).Error
	})
}

// UpdateProfile changes the signed-in user's display name and republishes
// the session so subscribers see the new name.
func (s *Service) UpdateProfile(userID uint64, displayName string) (*models.User, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	user, err := s.local.UpdateProfile(userID, displayName)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

// ChangePassword changes the signed-in user's password.
func (s *Service) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}

	return s.local.ChangePassword(userID, oldPassword, newPassword)
}

// SignOut removes the server-side session and clears the watcher.
func (s *Service) SignOut(sessionID string) error {
	if sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	s.watcher.Clear()

	return nil
}

func (s *Service) publish(user *models.User) {
	s.watcher.Set(&session.Session{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
	})
}
