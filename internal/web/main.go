package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-account-portal/go-account-portal/internal/auth"
	"github.com/go-account-portal/go-account-portal/internal/config"
	fiberlogger "github.com/go-account-portal/go-account-portal/internal/logger/adapter/fiber"
	"github.com/go-account-portal/go-account-portal/internal/web/handler"
	oidchandler "github.com/go-account-portal/go-account-portal/internal/web/handler/auth/oidc"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/diagnostics"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/home"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/login"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/logout"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/register"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/resetpassword"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/settings/profile"
	"github.com/go-account-portal/go-account-portal/internal/web/handler/settings/security"
	"github.com/go-account-portal/go-account-portal/internal/web/middleware/guard"
)

// CheckAliveURI is the health check endpoint for load balancers.
const CheckAliveURI = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the portal.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, authService *auth.Service) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if authService == nil {
		panic("auth service cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:            cfg.Log,
		CacheControlError: "max-age=0",
		CheckAliveURI:     CheckAliveURI,
	}))

	// error boundary and authentication gate
	app.Use(guard.ErrorBoundary(cfg))
	app.Use(guard.Middleware)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	service.alive.Store(true)

	// operational endpoints
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get(CheckAliveURI, service.checkAlive)

	// init handlers (they register their own routes)
	inits := []struct {
		name string
		svc  handler.Service
	}{
		{"login", &login.Handler},
		{"register", &register.Handler},
		{"resetpassword", &resetpassword.Handler},
		{"logout", &logout.Handler},
		{"oidc", &oidchandler.Handler},
		{"home", &home.Handler},
		{"profile", &profile.Handler},
		{"security", &security.Handler},
		{"diagnostics", &diagnostics.Handler},
	}

	for _, h := range inits {
		if err := h.svc.Init(app, cfg, authService); err != nil {
			log.Fatal().Err(err).Str("handler", h.name).Msg("failed to init handler")
		}
	}

	return service
}

// checkAlive reports readiness; during graceful shutdown it returns 503 so
// load balancers drain this instance.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
