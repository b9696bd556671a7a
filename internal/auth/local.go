package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/go-account-portal/go-account-portal/internal/db/models"
)

// LocalProvider handles email/password authentication against the local database.
type LocalProvider struct {
	db                *gorm.DB
	minPasswordLength int
}

const (
	whereIDAndAuthSource = "id = ? AND auth_source = ?"

	whereID = "id = ?"
)

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB, minPasswordLength int) *LocalProvider {
	return &LocalProvider{
		db:                db,
		minPasswordLength: minPasswordLength,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where("email = ? AND auth_source = ?", normalizeEmail(email), models.AuthSourceLocal).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	user.UpdatedAt = time.Now()
	p.db.Save(&user)

	return &user, nil
}

// CreateUser creates a new local user.
func (p *LocalProvider) CreateUser(email, password, displayName string) (*models.User, error) {
	email = normalizeEmail(email)

	if len(password) < p.minPasswordLength {
		return nil, ErrWeakPassword
	}

	// Check if an account already exists for this email
	var existingUser models.User

	err := p.db.Where("email = ?", email).First(&existingUser).Error
	if err == nil {
		return nil, ErrEmailInUse
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:      true,
		Email:       email,
		Password:    models.HashPassword(password),
		DisplayName: displayName,
		AuthSource:  models.AuthSourceLocal,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateProfile updates a user's display name. An empty display name is
// rejected before any database access.
func (p *LocalProvider) UpdateProfile(userID uint64, displayName string) (*models.User, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrDisplayNameEmpty
	}

	var user models.User
	if err := p.db.Where(whereID, userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.DisplayName = displayName
	user.UpdatedAt = time.Now()

	if err := p.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

// ChangePassword changes a user's password after verifying the old one.
func (p *LocalProvider) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	var user models.User
	if err := p.db.Where(whereIDAndAuthSource, userID, models.AuthSourceLocal).
		First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	if len(newPassword) < p.minPasswordLength {
		return ErrWeakPassword
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password", models.HashPassword(newPassword)).Error
}

// SetPassword overwrites a user's password without checking the old one.
// Used by the password reset flow after a token was redeemed.
func (p *LocalProvider) SetPassword(userID uint64, newPassword string) error {
	if len(newPassword) < p.minPasswordLength {
		return ErrWeakPassword
	}

	return p.db.Model(&models.User{}).
		Where(whereIDAndAuthSource, userID, models.AuthSourceLocal).
		Update("password", models.HashPassword(newPassword)).Error
}

// ActivateUser activates a user account.
func (p *LocalProvider) ActivateUser(userID uint64) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("active", true).Error
}

// DeactivateUser deactivates a user account.
func (p *LocalProvider) DeactivateUser(userID uint64) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("active", false).Error
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (p *LocalProvider) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := p.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
