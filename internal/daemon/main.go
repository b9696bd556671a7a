// Package daemon wires the portal together: database, session store,
// authentication facade and web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	"github.com/go-account-portal/go-account-portal/internal/db/dsn"
	"github.com/go-account-portal/go-account-portal/internal/db/models"
	"github.com/go-account-portal/go-account-portal/internal/web"
	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	addr       string
	unwatch    func()
}

// Start starts the Daemon's web service and blocks until it stops.
func (d *Daemon) Start() error {
	defer d.unwatch()

	go d.webService.WaitShutdown()

	return d.webService.Start(d.addr)
}

// New creates a new Daemon instance with the provided configuration.
//
// The session store is initialized last, after the database is migrated and
// the watcher subscribed: until then the guard reports the loading state for
// every request.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := openDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	watcher := session.NewWatcher()
	unwatch := watchSessions(watcher)

	authService, err := auth.NewService(context.Background(), db, cfg, watcher)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}

	webService := web.New(cfg, db, authService)

	// the guard answers "loading" until this point
	session.Init(newSessionStorage(cfg))

	return &Daemon{
		webService: webService,
		addr:       fmt.Sprintf(":%d", cfg.Webserver.Port),
		unwatch:    unwatch,
	}
}

// openDatabase opens the gorm handle for the configured engine.
func openDatabase(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.DB.Engine {
	case "postgres":
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.Engine).Msg("failed to connect database")
	}

	return db
}

// newSessionStorage picks the fiber session backend matching the database
// engine. The sqlite engine keeps sessions in memory: it is the single-node
// development setup.
func newSessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.Engine {
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.CreatePostgresURI(cfg),
			Table:         "sessions",
		})
	case "sqlite":
		return sessionmemory.New()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
