package daemon

import (
	"gorm.io/gorm"

	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/rs/zerolog/log"
)

// seed creates a first admin account when the user table is empty, so a
// fresh deployment can be signed into at all.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		db.Create(
			&models.User{
				Active:      true,
				Email:       "admin@localhost",
				Password:    models.HashPassword("changeme"),
				DisplayName: "Administrator",
				AuthSource:  models.AuthSourceLocal,
			},
		)

		log.Warn().Msg("seeded initial admin@localhost account with default password; change it")
	}
}
