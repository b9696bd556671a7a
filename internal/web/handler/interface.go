package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error
}
