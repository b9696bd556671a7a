package auth

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/go-account-portal/go-account-portal/internal/db/models"
)

// EnrollTOTP generates a new TOTP secret for the user and stores it without
// enabling two-factor authentication yet. The returned key carries the
// otpauth:// URL for the authenticator app. Enrolling again replaces any
// pending secret.
func (p *LocalProvider) EnrollTOTP(userID uint64, issuer string) (*otp.Key, error) {
	user, err := p.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp key: %w", err)
	}

	err = p.db.Model(&models.User{}).
		Where(whereID, userID).
		Updates(map[string]interface{}{
			"totp_secret":  key.Secret(),
			"totp_enabled": false,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to store totp secret: %w", err)
	}

	return key, nil
}

// ConfirmTOTP verifies a code against the pending secret and enables
// two-factor authentication for the user.
func (p *LocalProvider) ConfirmTOTP(userID uint64, code string) error {
	user, err := p.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user.TOTPSecret == "" {
		return ErrTwoFactorRequired
	}

	if !totp.Validate(code, user.TOTPSecret) {
		return ErrTwoFactorInvalid
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("totp_enabled", true).Error
}

// DisableTOTP turns off two-factor authentication and discards the secret.
func (p *LocalProvider) DisableTOTP(userID uint64) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Updates(map[string]interface{}{
			"totp_secret":  "",
			"totp_enabled": false,
		}).Error
}

// VerifyTOTP checks a sign-in code for a user with two-factor enabled.
func VerifyTOTP(user *models.User, code string) error {
	if code == "" {
		return ErrTwoFactorRequired
	}

	if !totp.Validate(code, user.TOTPSecret) {
		return ErrTwoFactorInvalid
	}

	return nil
}
